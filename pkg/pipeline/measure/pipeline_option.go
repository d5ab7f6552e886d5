package measure

import (
	"time"

	"github.com/askiada/go-flows/pkg/pipeline/model"
)

type pipelineMeasure struct {
	Measure
}

func (pm *pipelineMeasure) New(string) error {
	pm.AddMetric(model.EndStep.Name)

	return nil
}

func (pm *pipelineMeasure) PrepareStep(_ []*model.StepInfo, step *model.StepInfo) error {
	pm.AddMetric(step.Name)

	return nil
}

func (pm *pipelineMeasure) OnRunStart(*model.RunInfo) error {
	return nil
}

func (pm *pipelineMeasure) OnStepStart(*model.RunInfo, *model.StepInfo) error {
	return nil
}

func (pm *pipelineMeasure) OnStepOutput(_ *model.RunInfo, step *model.StepInfo, attempts int, computationDuration time.Duration) error {
	mt := pm.AddMetric(step.Name)
	mt.AddDuration(computationDuration)
	mt.AddAttempts(attempts)

	return nil
}

func (pm *pipelineMeasure) OnStepError(_ *model.RunInfo, step *model.StepInfo, attempts int, _ error) error {
	mt := pm.AddMetric(step.Name)
	mt.AddAttempts(attempts)
	mt.AddFailure()

	return nil
}

func (pm *pipelineMeasure) Finish(_ *model.RunInfo, totalDuration time.Duration, _ error) error {
	pm.AddMetric(model.EndStep.Name).SetTotalDuration(totalDuration)

	return nil
}

// PipelineMeasure records the metrics of every step of the pipeline in measure.
func PipelineMeasure(measure Measure) model.PipelineOption {
	return &pipelineMeasure{measure}
}
