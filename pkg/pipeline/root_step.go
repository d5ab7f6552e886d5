package pipeline

import (
	"context"

	"github.com/askiada/go-flows/pkg/pipeline/model"
)

// AddRootStep adds a step without input.
func AddRootStep[O any](p *Pipeline, name string, stepFn func(ctx context.Context) (O, error), opts ...StepOption) (*Step[O], error) {
	if p == nil {
		return nil, ErrPipelineMustBeSet
	}

	details := &model.StepInfo{
		Type: model.RootStepType,
		Name: name,
	}

	return addStep(p, details, func(ctx context.Context, _ *Run) (O, error) {
		return stepFn(ctx)
	}, opts...)
}
