package pipeline

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/askiada/go-flows/pkg/pipeline/model"
)

// Run holds the outcome of one execution of a pipeline.
// Nothing is shared between two runs of the same pipeline.
type Run struct {
	mu       sync.RWMutex
	info     *model.RunInfo
	pipe     *Pipeline
	state    model.RunState
	steps    map[string]model.StepState
	results  map[string]any
	duration time.Duration
}

func newRun(pipe *Pipeline) *Run {
	pipe.mu.Lock()
	defer pipe.mu.Unlock()

	steps := make(map[string]model.StepState, len(pipe.steps))
	for name := range pipe.steps {
		steps[name] = model.StepPending
	}

	return &Run{
		info: &model.RunInfo{
			ID:           uuid.NewString(),
			PipelineName: pipe.name,
			StartTime:    time.Now(),
		},
		pipe:    pipe,
		state:   model.RunPending,
		steps:   steps,
		results: make(map[string]any, len(steps)),
	}
}

// ID returns the unique identifier of the run.
func (r *Run) ID() string {
	return r.info.ID
}

// PipelineName returns the name of the pipeline that ran.
func (r *Run) PipelineName() string {
	return r.info.PipelineName
}

// Info returns the description of the run handed to pipeline options.
func (r *Run) Info() *model.RunInfo {
	return r.info
}

// State returns the state of the run.
func (r *Run) State() model.RunState {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.state
}

// StepState returns the state of the step called name, or an empty state if the pipeline has no such step.
func (r *Run) StepState(name string) model.StepState {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.steps[name]
}

// Duration returns how long the run took, or how long it has been running so far.
func (r *Run) Duration() time.Duration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.state == model.RunPending {
		return time.Since(r.info.StartTime)
	}

	return r.duration
}

func (r *Run) setState(name string, state model.StepState) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.steps[name] = state
}

func (r *Run) setResult(name string, out any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.results[name] = out
	r.steps[name] = model.StepCompleted
}

func (r *Run) finish(runErr error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.duration = time.Since(r.info.StartTime)
	r.state = model.RunCompleted

	if runErr != nil {
		r.state = model.RunFailed
	}
}

// fail marks a finished run as failed, when a pipeline option could not finish.
func (r *Run) fail() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.state = model.RunFailed
}

// Result returns the result of step in run.
func Result[O any](run *Run, step *Step[O]) (O, error) {
	var zero O

	if run == nil {
		return zero, ErrRunMustBeSet
	}

	if step == nil {
		return zero, ErrInputMustBeSet
	}

	if step.pipe != run.pipe {
		return zero, errors.Wrapf(ErrStepNotInPipeline, "step %s", step.details.Name)
	}

	run.mu.RLock()
	defer run.mu.RUnlock()

	if run.steps[step.details.Name] != model.StepCompleted {
		return zero, errors.Wrapf(ErrStepNotCompleted, "step %s", step.details.Name)
	}

	// a nil interface result cannot be asserted
	if run.results[step.details.Name] == nil {
		return zero, nil
	}

	return run.results[step.details.Name].(O), nil //nolint:forcetypeassert // the step handle fixes the type
}
