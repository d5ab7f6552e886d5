package pipeline

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrPipelineMustBeSet     = errors.New("p must be set")
	ErrPipelineNameMustBeSet = errors.New("pipeline name must be set")
	ErrStepNameMustBeSet     = errors.New("step name must be set")
	ErrInputMustBeSet        = errors.New("input must be set")
	ErrInputsMustBeSet       = errors.New("at least one input must be set")
	ErrStepNotInPipeline     = errors.New("step does not belong to the pipeline")
	ErrStepNotCompleted      = errors.New("step did not complete")
	ErrRunMustBeSet          = errors.New("run must be set")
)

// StepError is returned by Run when a step gave up.
type StepError struct {
	Err      error
	Step     string
	Attempts int
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %s failed after %d attempt(s): %v", e.Step, e.Attempts, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Cause is used by errors.Cause.
func (e *StepError) Cause() error {
	return e.Err
}
