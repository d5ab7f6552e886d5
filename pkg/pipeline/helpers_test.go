package pipeline_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/askiada/go-flows/pkg/pipeline"
	"github.com/askiada/go-flows/pkg/pipeline/model"
)

func identity[T any](_ context.Context, in T) (T, error) {
	return in, nil
}

func constant[T any](value T) func(context.Context) (T, error) {
	return func(context.Context) (T, error) {
		return value, nil
	}
}

func newPipeline(t *testing.T, opts ...pipeline.Option) *pipeline.Pipeline {
	t.Helper()

	pipe, err := pipeline.New("test pipeline", opts...)
	require.NoError(t, err)

	return pipe
}

// recorder is a pipeline option keeping track of every call it receives.
type recorder struct {
	mu     sync.Mutex
	events []string

	failOn string
}

func (r *recorder) record(event string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, event)
	if event == r.failOn {
		return errHook
	}

	return nil
}

func (r *recorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := make([]string, len(r.events))
	copy(res, r.events)

	return res
}

func (r *recorder) New(name string) error {
	return r.record("new " + name)
}

func (r *recorder) PrepareStep(_ []*model.StepInfo, step *model.StepInfo) error {
	return r.record("prepare " + step.Name)
}

func (r *recorder) OnRunStart(*model.RunInfo) error {
	return r.record("run start")
}

func (r *recorder) OnStepStart(_ *model.RunInfo, step *model.StepInfo) error {
	return r.record("start " + step.Name)
}

func (r *recorder) OnStepOutput(_ *model.RunInfo, step *model.StepInfo, _ int, _ time.Duration) error {
	return r.record("output " + step.Name)
}

func (r *recorder) OnStepError(_ *model.RunInfo, step *model.StepInfo, _ int, _ error) error {
	return r.record("error " + step.Name)
}

func (r *recorder) Finish(_ *model.RunInfo, _ time.Duration, runErr error) error {
	if runErr != nil {
		return r.record("finish failed")
	}

	return r.record("finish")
}

var _ model.PipelineOption = (*recorder)(nil)
