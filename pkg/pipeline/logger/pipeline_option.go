// Package logger provides a pipeline option logging the life of every run.
package logger

import (
	"log/slog"
	"sync"
	"time"

	"github.com/askiada/go-flows/pkg/pipeline/model"
)

type pipelineLogger struct {
	base *slog.Logger

	mu sync.Mutex
	// logger of the pipeline whose steps are being registered
	registering *slog.Logger
}

func (pl *pipelineLogger) New(pipelineName string) error {
	pl.mu.Lock()
	defer pl.mu.Unlock()

	pl.registering = pl.base.With(slog.String("flow", pipelineName))

	return nil
}

func (pl *pipelineLogger) forRun(run *model.RunInfo) *slog.Logger {
	return pl.base.With(slog.String("flow", run.PipelineName))
}

func (pl *pipelineLogger) PrepareStep(parentSteps []*model.StepInfo, step *model.StepInfo) error {
	pl.mu.Lock()
	defer pl.mu.Unlock()

	pl.registering.Debug("registered step",
		slog.String("step", step.Name),
		slog.String("type", string(step.Type)),
		slog.Int("inputs", len(parentSteps)),
	)

	return nil
}

func (pl *pipelineLogger) OnRunStart(run *model.RunInfo) error {
	pl.forRun(run).Info("created flow run", slog.String("run_id", run.ID))

	return nil
}

func (pl *pipelineLogger) OnStepStart(run *model.RunInfo, step *model.StepInfo) error {
	pl.forRun(run).Debug("created step run", slog.String("run_id", run.ID), slog.String("step", step.Name))

	return nil
}

func (pl *pipelineLogger) OnStepOutput(run *model.RunInfo, step *model.StepInfo, attempts int, computationDuration time.Duration) error {
	pl.forRun(run).Info("step completed",
		slog.String("run_id", run.ID),
		slog.String("step", step.Name),
		slog.Int("attempts", attempts),
		slog.Duration("duration", computationDuration),
	)

	return nil
}

func (pl *pipelineLogger) OnStepError(run *model.RunInfo, step *model.StepInfo, attempts int, err error) error {
	pl.forRun(run).Error("step failed",
		slog.String("run_id", run.ID),
		slog.String("step", step.Name),
		slog.Int("attempts", attempts),
		slog.Any("error", err),
	)

	return nil
}

func (pl *pipelineLogger) Finish(run *model.RunInfo, totalDuration time.Duration, runErr error) error {
	if runErr != nil {
		pl.forRun(run).Error("flow run finished",
			slog.String("run_id", run.ID),
			slog.String("state", "Failed"),
			slog.Duration("duration", totalDuration),
			slog.Any("error", runErr),
		)

		return nil
	}

	pl.forRun(run).Info("flow run finished",
		slog.String("run_id", run.ID),
		slog.String("state", "Completed"),
		slog.Duration("duration", totalDuration),
	)

	return nil
}

// PipelineLogger logs the runs of the pipeline with logger. A nil logger uses slog.Default.
// The same option can observe several pipelines, every line carries the name of its own pipeline.
func PipelineLogger(logger *slog.Logger) model.PipelineOption {
	if logger == nil {
		logger = slog.Default()
	}

	return &pipelineLogger{base: logger, registering: logger}
}
