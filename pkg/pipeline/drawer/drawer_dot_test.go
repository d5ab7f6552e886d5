package drawer_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-flows/pkg/pipeline"
	"github.com/askiada/go-flows/pkg/pipeline/drawer"
	"github.com/askiada/go-flows/pkg/pipeline/measure"
	"github.com/askiada/go-flows/pkg/pipeline/model"
)

func TestDOTDrawer(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	d := drawer.NewDOTDrawerTo(out)

	require.NoError(t, d.AddStep("a"))
	require.NoError(t, d.AddStep("b"))
	require.NoError(t, d.AddLink("a", "b"))
	require.Error(t, d.AddLink("a", "b"))
	require.Error(t, d.AddStep("a"))

	require.NoError(t, d.SetState("a", model.StepCompleted))
	require.NoError(t, d.SetState("b", model.StepFailed))
	require.Error(t, d.SetState("b", model.StepState("unknown")))
	require.Error(t, d.SetState("z", model.StepCompleted))
	require.NoError(t, d.SetTotalTime("b", time.Second))

	require.NoError(t, d.Draw())

	got := out.String()
	assert.Contains(t, got, "strict digraph {")
	assert.Contains(t, got, `rankdir="LR";`)
	assert.Contains(t, got, `"a" -> "b"`)
	assert.Contains(t, got, `color="#00a000"`)
	assert.Contains(t, got, `color="#f00000"`)
	assert.Contains(t, got, `<b <BR /> <FONT POINT-SIZE="12">1s</FONT>>`)

	// labels survive a second rendering
	out.Reset()
	require.NoError(t, d.Draw())
	assert.Contains(t, out.String(), `<FONT POINT-SIZE="12">1s</FONT>`)
}

func TestDOTDrawerAddMeasure(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	d := drawer.NewDOTDrawerTo(out)
	require.NoError(t, d.AddStep("fast"))
	require.NoError(t, d.AddStep("slow"))

	msr := measure.NewDefaultMeasure()
	msr.AddMetric("fast").AddDuration(time.Millisecond)
	msr.AddMetric("slow").AddDuration(time.Second)
	msr.AddMetric("slow").AddFailure()
	msr.AddMetric(model.EndStep.Name).SetTotalDuration(time.Minute)

	require.NoError(t, d.AddMeasure(msr))
	require.NoError(t, d.Draw())

	got := strings.ToLower(out.String())
	assert.Contains(t, got, `fillcolor="#0000f0"`)
	assert.Contains(t, got, `fillcolor="#f00000"`)
	assert.Contains(t, got, `tooltip="1 failure(s)"`)
}

func TestPipelineDrawer(t *testing.T) {
	t.Parallel()

	fileName := filepath.Join(t.TempDir(), "flow.dot")
	msr := measure.NewDefaultMeasure()

	pipe, err := pipeline.New("drawn", pipeline.PipelineHooks(
		measure.PipelineMeasure(msr),
		drawer.PipelineDrawer(drawer.NewDOTDrawer(fileName), msr),
	))
	require.NoError(t, err)

	hello, err := pipeline.AddRootStep(pipe, "hello", func(context.Context) (string, error) {
		return "Hello", nil
	})
	require.NoError(t, err)

	_, err = pipeline.AddStepOneToOne(pipe, "process", hello, func(_ context.Context, in string) (string, error) {
		return "Processed: " + in, nil
	})
	require.NoError(t, err)

	for range 2 {
		_, err = pipe.Run(t.Context())
		require.NoError(t, err)
	}

	content, err := os.ReadFile(fileName)
	require.NoError(t, err)

	got := string(content)
	assert.Contains(t, got, `"start" -> "hello"`)
	assert.Contains(t, got, `"hello" -> "process"`)
	assert.Contains(t, got, `"process" -> "end"`)
	assert.NotContains(t, got, `"hello" -> "end"`)
	assert.Contains(t, got, `color="#00a000"`)
}

func TestPipelineDrawerFailedRun(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}

	pipe, err := pipeline.New("drawn", pipeline.PipelineHooks(drawer.PipelineDrawer(drawer.NewDOTDrawerTo(out), nil)))
	require.NoError(t, err)

	broken, err := pipeline.AddRootStep(pipe, "broken", func(context.Context) (int, error) {
		return 0, assert.AnError
	})
	require.NoError(t, err)

	_, err = pipeline.AddStepOneToOne(pipe, "never", broken, func(_ context.Context, in int) (int, error) {
		return in, nil
	})
	require.NoError(t, err)

	_, err = pipe.Run(t.Context())
	require.Error(t, err)

	got := out.String()
	assert.Contains(t, got, `color="#f00000"`)
	assert.Contains(t, got, `color="#a0a0a0"`)
}

func TestDOTDrawerDrawFileError(t *testing.T) {
	t.Parallel()

	d := drawer.NewDOTDrawer(filepath.Join(t.TempDir(), "missing", "flow.dot"))
	require.NoError(t, d.AddStep("a"))
	require.Error(t, d.Draw())
}
