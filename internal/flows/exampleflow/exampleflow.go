// Package exampleflow greets, then processes the greeting.
package exampleflow

import (
	"context"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/askiada/go-flows/pkg/pipeline"
)

const (
	Name            = "example-flow"
	HelloStepName   = "hello_task"
	ProcessStepName = "process_task"

	Greeting = "Hello"
)

// Flow prints its progress to out.
type Flow struct {
	out io.Writer
}

func New(out io.Writer) *Flow {
	return &Flow{out: out}
}

// Hello always returns the greeting.
func (f *Flow) Hello(context.Context) (string, error) {
	fmt.Fprintln(f.out, "Hello from Prefect!")

	return Greeting, nil
}

// Process prefixes any input, the empty string included.
func (f *Flow) Process(_ context.Context, input string) (string, error) {
	fmt.Fprintf(f.out, "Processing: %s\n", input)

	return "Processed: " + input, nil
}

// Build registers the steps and returns the pipeline with its last step.
func (f *Flow) Build(opts ...pipeline.Option) (*pipeline.Pipeline, *pipeline.Step[string], error) {
	pipe, err := pipeline.New(Name, opts...)
	if err != nil {
		return nil, nil, errors.Wrap(err, "unable to create pipeline")
	}

	hello, err := pipeline.AddRootStep(pipe, HelloStepName, f.Hello)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "unable to add %s", HelloStepName)
	}

	processed, err := pipeline.AddStepOneToOne(pipe, ProcessStepName, hello, f.Process)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "unable to add %s", ProcessStepName)
	}

	return pipe, processed, nil
}

// Run builds and runs the flow once, then prints and returns its result.
func (f *Flow) Run(ctx context.Context, opts ...pipeline.Option) (string, error) {
	pipe, processed, err := f.Build(opts...)
	if err != nil {
		return "", err
	}

	result, err := pipeline.Execute(ctx, pipe, processed)
	if err != nil {
		return "", errors.Wrapf(err, "flow %s", Name)
	}

	fmt.Fprintf(f.out, "Flow completed with result: %s\n", result)

	return result, nil
}
