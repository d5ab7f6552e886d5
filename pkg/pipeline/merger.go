package pipeline

import (
	"context"

	"github.com/askiada/go-flows/pkg/pipeline/model"
)

// AddStepManyToOne adds a step fed by the results of inputs. The merger function receives them in the same order.
func AddStepManyToOne[I any, O any](p *Pipeline, name string, inputs []*Step[I], manyToOneFn func(context.Context, []I) (O, error), opts ...StepOption) (*Step[O], error) {
	if p == nil {
		return nil, ErrPipelineMustBeSet
	}

	if len(inputs) == 0 {
		return nil, ErrInputsMustBeSet
	}

	parents := make([]string, len(inputs))
	for i, input := range inputs {
		err := checkInput(p, input)
		if err != nil {
			return nil, err
		}

		parents[i] = input.details.Name
	}

	details := &model.StepInfo{
		Type:      model.MergerStepType,
		Name:      name,
		InputType: "[]" + typeName[I](),
		Parents:   parents,
	}

	return addStep(p, details, func(ctx context.Context, run *Run) (O, error) {
		ins := make([]I, len(inputs))
		for i, input := range inputs {
			in, err := Result(run, input)
			if err != nil {
				var zero O

				return zero, err
			}

			ins[i] = in
		}

		return manyToOneFn(ctx, ins)
	}, opts...)
}
