package pipeline

import (
	"context"
	"reflect"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"

	"github.com/askiada/go-flows/pkg/pipeline/model"
)

// Step is the handle of a step registered in a pipeline. Its type parameter is the type of the step result.
type Step[O any] struct {
	details *model.StepInfo
	pipe    *Pipeline
}

// Name returns the name of the step.
func (s *Step[O]) Name() string {
	return s.details.Name
}

// Details returns the description of the step.
func (s *Step[O]) Details() *model.StepInfo {
	return s.details
}

func typeName[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}

func checkInput[I any](p *Pipeline, input *Step[I]) error {
	if input == nil {
		return ErrInputMustBeSet
	}

	if input.pipe != p {
		return errors.Wrapf(ErrStepNotInPipeline, "input %s", input.details.Name)
	}

	return nil
}

func addStep[O any](p *Pipeline, details *model.StepInfo, stepFn func(ctx context.Context, run *Run) (O, error), opts ...StepOption) (*Step[O], error) {
	if details.Name == "" {
		return nil, ErrStepNameMustBeSet
	}

	details.OutputType = typeName[O]()

	for _, opt := range opts {
		opt(details)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.steps[details.Name]; ok {
		return nil, errors.Wrapf(graph.ErrVertexAlreadyExists, "unable to add step %s", details.Name)
	}

	for _, opt := range p.stepOpts[details.Name] {
		opt(details)
	}

	parentSteps := make([]*model.StepInfo, len(details.Parents))
	for i, parentName := range details.Parents {
		parentSteps[i] = p.steps[parentName].details
	}

	for _, opt := range p.opts {
		err := opt.PrepareStep(parentSteps, details)
		if err != nil {
			return nil, errors.Wrap(err, "unable to run prepare step function")
		}
	}

	err := p.graph.AddVertex(details.Name)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to add step %s", details.Name)
	}

	linked := make(map[string]struct{}, len(details.Parents))

	for _, parentName := range details.Parents {
		if _, ok := linked[parentName]; ok {
			continue
		}

		linked[parentName] = struct{}{}

		err = p.graph.AddEdge(parentName, details.Name)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to link %s to %s", parentName, details.Name)
		}
	}

	p.index[details.Name] = len(p.index)
	p.steps[details.Name] = &stepRunner{
		details: details,
		fn: func(ctx context.Context, run *Run) (any, error) {
			return stepFn(ctx, run)
		},
	}

	return &Step[O]{details: details, pipe: p}, nil
}

// AddStepOneToOne adds a step fed by the result of input.
func AddStepOneToOne[I any, O any](p *Pipeline, name string, input *Step[I], oneToOneFn func(context.Context, I) (O, error), opts ...StepOption) (*Step[O], error) {
	if p == nil {
		return nil, ErrPipelineMustBeSet
	}

	err := checkInput(p, input)
	if err != nil {
		return nil, err
	}

	details := &model.StepInfo{
		Type:      model.NormalStepType,
		Name:      name,
		InputType: typeName[I](),
		Parents:   []string{input.details.Name},
	}

	return addStep(p, details, func(ctx context.Context, run *Run) (O, error) {
		in, err := Result(run, input)
		if err != nil {
			var zero O

			return zero, err
		}

		return oneToOneFn(ctx, in)
	}, opts...)
}

func retryPolicy(details *model.StepInfo) backoff.BackOff {
	var policy backoff.BackOff = &backoff.ZeroBackOff{}
	if details.RetryDelay > 0 {
		policy = backoff.NewConstantBackOff(details.RetryDelay)
	}

	return backoff.WithMaxRetries(policy, details.Retries)
}

func (p *Pipeline) runStep(ctx context.Context, run *Run, step *stepRunner) error {
	// a sibling already failed or the run was cancelled: the step stays pending
	if ctx.Err() != nil {
		return errors.Wrapf(ctx.Err(), "step %s not started", step.details.Name)
	}

	run.setState(step.details.Name, model.StepRunning)

	for _, opt := range p.opts {
		err := opt.OnStepStart(run.info, step.details)
		if err != nil {
			return errors.Wrap(err, "unable to run step start function")
		}
	}

	var (
		out      any
		attempts int
		elapsed  time.Duration
	)

	operation := func() error {
		attempts++

		stepCtx, cancel := ctx, context.CancelFunc(func() {})
		if step.details.Timeout > 0 {
			stepCtx, cancel = context.WithTimeout(ctx, step.details.Timeout)
		}
		defer cancel()

		start := time.Now()
		res, err := step.fn(stepCtx, run)
		elapsed = time.Since(start)

		if err != nil {
			return err
		}

		out = res

		return nil
	}

	err := backoff.Retry(operation, backoff.WithContext(retryPolicy(step.details), ctx))
	if err != nil {
		run.setState(step.details.Name, model.StepFailed)

		for _, opt := range p.opts {
			hookErr := opt.OnStepError(run.info, step.details, attempts, err)
			if hookErr != nil {
				return errors.Wrap(hookErr, "unable to run step error function")
			}
		}

		return &StepError{Step: step.details.Name, Attempts: attempts, Err: err}
	}

	run.setResult(step.details.Name, out)

	for _, opt := range p.opts {
		err := opt.OnStepOutput(run.info, step.details, attempts, elapsed)
		if err != nil {
			return errors.Wrap(err, "unable to run step output function")
		}
	}

	return nil
}
