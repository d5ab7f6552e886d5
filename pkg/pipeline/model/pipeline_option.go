package model

import "time"

// PipelineOption defines the interface for pipeline options.
// Steps of the same level may run concurrently, so implementations must be safe for concurrent use.
type PipelineOption interface {
	// New initialises the pipeline option.
	New(pipelineName string) error

	pipelineStepOption
	pipelineRunOption
}

// pipelineStepOption defines the interface for step options at the pipeline level.
type pipelineStepOption interface {
	// PrepareStep runs when the step is added to the pipeline.
	PrepareStep(parentSteps []*StepInfo, step *StepInfo) error
	// OnStepStart runs before the first attempt of the step.
	OnStepStart(run *RunInfo, step *StepInfo) error
	// OnStepOutput runs once the step returned a result.
	OnStepOutput(run *RunInfo, step *StepInfo, attempts int, computationDuration time.Duration) error
	// OnStepError runs once the step gave up.
	OnStepError(run *RunInfo, step *StepInfo, attempts int, err error) error
}

// pipelineRunOption defines the interface for run options at the pipeline level.
type pipelineRunOption interface {
	// OnRunStart runs before any step of the run.
	OnRunStart(run *RunInfo) error
	// Finish runs after the run is finished, runErr is nil on success.
	Finish(run *RunInfo, totalDuration time.Duration, runErr error) error
}
