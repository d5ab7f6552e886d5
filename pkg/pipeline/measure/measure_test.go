package measure_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-flows/pkg/pipeline"
	"github.com/askiada/go-flows/pkg/pipeline/measure"
	"github.com/askiada/go-flows/pkg/pipeline/model"
)

func TestDefaultMeasure(t *testing.T) {
	t.Parallel()

	msr := measure.NewDefaultMeasure()
	assert.Nil(t, msr.GetMetric("step"))

	mt := msr.AddMetric("step")
	assert.Same(t, mt, msr.AddMetric("step"))
	assert.Same(t, mt, msr.GetMetric("step"))
	assert.Len(t, msr.AllMetrics(), 1)
}

func TestPipelineMeasure(t *testing.T) {
	t.Parallel()

	msr := measure.NewDefaultMeasure()
	pipe, err := pipeline.New("measured", pipeline.PipelineHooks(measure.PipelineMeasure(msr)))
	require.NoError(t, err)

	calls := 0
	root, err := pipeline.AddRootStep(pipe, "root", func(context.Context) (int, error) {
		calls++
		if calls == 1 {
			return 0, assert.AnError
		}

		return 1, nil
	}, pipeline.StepRetries(1))
	require.NoError(t, err)

	_, err = pipeline.AddStepOneToOne(pipe, "broken", root, func(context.Context, int) (int, error) {
		return 0, assert.AnError
	})
	require.NoError(t, err)

	_, err = pipe.Run(t.Context())
	require.Error(t, err)

	all := msr.AllMetrics()
	require.Len(t, all, 3)

	assert.Equal(t, int64(1), all["root"].Total())
	assert.Equal(t, int64(2), all["root"].Attempts())
	assert.Equal(t, int64(0), all["root"].Failures())

	assert.Equal(t, int64(0), all["broken"].Total())
	assert.Equal(t, int64(1), all["broken"].Attempts())
	assert.Equal(t, int64(1), all["broken"].Failures())

	assert.NotZero(t, all[model.EndStep.Name].GetTotalDuration())
}
