// Package testflow reports that the worker is up.
package testflow

import (
	"context"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/askiada/go-flows/pkg/pipeline"
)

const (
	Name             = "test-flow"
	SayHelloStepName = "say_hello"

	Message = "Srijan's worker running"
)

type Flow struct {
	out io.Writer
}

func New(out io.Writer) *Flow {
	return &Flow{out: out}
}

func (f *Flow) SayHello(context.Context) (string, error) {
	return Message, nil
}

func (f *Flow) Build(opts ...pipeline.Option) (*pipeline.Pipeline, *pipeline.Step[string], error) {
	pipe, err := pipeline.New(Name, opts...)
	if err != nil {
		return nil, nil, errors.Wrap(err, "unable to create pipeline")
	}

	message, err := pipeline.AddRootStep(pipe, SayHelloStepName, f.SayHello)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "unable to add %s", SayHelloStepName)
	}

	return pipe, message, nil
}

// Run prints the message and returns it unchanged.
func (f *Flow) Run(ctx context.Context, opts ...pipeline.Option) (string, error) {
	pipe, message, err := f.Build(opts...)
	if err != nil {
		return "", err
	}

	result, err := pipeline.Execute(ctx, pipe, message)
	if err != nil {
		return "", errors.Wrapf(err, "flow %s", Name)
	}

	fmt.Fprintln(f.out, result)

	return result, nil
}
