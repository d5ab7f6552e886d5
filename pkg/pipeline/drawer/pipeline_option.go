package drawer

import (
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-flows/pkg/pipeline/measure"
	"github.com/askiada/go-flows/pkg/pipeline/model"
)

type pipelineDrawer struct {
	Drawer
	m measure.Measure

	mu          sync.Mutex
	steps       []string
	hasChildren map[string]bool
	linkedToEnd map[string]bool
	states      map[string]model.StepState
}

func (pd *pipelineDrawer) New(string) error {
	err := pd.AddStep(model.StartStep.Name)
	if err != nil {
		return errors.Wrap(err, "unable to add start step to drawer")
	}

	err = pd.AddStep(model.EndStep.Name)
	if err != nil {
		return errors.Wrap(err, "unable to add end step to drawer")
	}

	return nil
}

func (pd *pipelineDrawer) PrepareStep(parentSteps []*model.StepInfo, step *model.StepInfo) error {
	pd.mu.Lock()
	defer pd.mu.Unlock()

	err := pd.AddStep(step.Name)
	if err != nil {
		return err
	}

	pd.steps = append(pd.steps, step.Name)

	if len(parentSteps) == 0 {
		return pd.AddLink(model.StartStep.Name, step.Name)
	}

	linked := make(map[string]struct{}, len(parentSteps))

	for _, parentStep := range parentSteps {
		if _, ok := linked[parentStep.Name]; ok {
			continue
		}

		linked[parentStep.Name] = struct{}{}
		pd.hasChildren[parentStep.Name] = true

		err := pd.AddLink(parentStep.Name, step.Name)
		if err != nil {
			return err
		}
	}

	return nil
}

func (pd *pipelineDrawer) OnRunStart(*model.RunInfo) error {
	pd.mu.Lock()
	defer pd.mu.Unlock()

	pd.states = make(map[string]model.StepState, len(pd.steps))

	return nil
}

func (pd *pipelineDrawer) OnStepStart(*model.RunInfo, *model.StepInfo) error {
	return nil
}

func (pd *pipelineDrawer) setState(name string, state model.StepState) {
	pd.mu.Lock()
	defer pd.mu.Unlock()

	pd.states[name] = state
}

func (pd *pipelineDrawer) OnStepOutput(_ *model.RunInfo, step *model.StepInfo, _ int, _ time.Duration) error {
	pd.setState(step.Name, model.StepCompleted)

	return nil
}

func (pd *pipelineDrawer) OnStepError(_ *model.RunInfo, step *model.StepInfo, _ int, _ error) error {
	pd.setState(step.Name, model.StepFailed)

	return nil
}

// linkLeaves links the steps nobody depends on to the end step.
func (pd *pipelineDrawer) linkLeaves() error {
	for _, name := range pd.steps {
		if pd.hasChildren[name] || pd.linkedToEnd[name] {
			continue
		}

		err := pd.AddLink(name, model.EndStep.Name)
		if err != nil {
			return err
		}

		pd.linkedToEnd[name] = true
	}

	return nil
}

func (pd *pipelineDrawer) Finish(_ *model.RunInfo, totalDuration time.Duration, _ error) error {
	pd.mu.Lock()
	defer pd.mu.Unlock()

	err := pd.linkLeaves()
	if err != nil {
		return errors.Wrap(err, "unable to link steps to end step")
	}

	for _, name := range pd.steps {
		state, ok := pd.states[name]
		if !ok {
			state = model.StepPending
		}

		err := pd.SetState(name, state)
		if err != nil {
			return errors.Wrap(err, "unable to set step state")
		}
	}

	if pd.m != nil {
		err = pd.AddMeasure(pd.m)
		if err != nil {
			return errors.Wrap(err, "unable to add measure")
		}
	}

	err = pd.SetTotalTime(model.EndStep.Name, totalDuration)
	if err != nil {
		return errors.Wrap(err, "unable to set total time")
	}

	err = pd.Draw()
	if err != nil {
		return errors.Wrap(err, "unable to draw pipeline")
	}

	return nil
}

// PipelineDrawer draws the pipeline with drawer at the end of every run.
// The measure is optional, it adds the average duration of every step.
func PipelineDrawer(drawer Drawer, measure measure.Measure) model.PipelineOption {
	return &pipelineDrawer{
		Drawer:      drawer,
		m:           measure,
		hasChildren: make(map[string]bool),
		linkedToEnd: make(map[string]bool),
		states:      make(map[string]model.StepState),
	}
}
