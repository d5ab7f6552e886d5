package pipeline

import (
	"time"

	"github.com/askiada/go-flows/pkg/pipeline/model"
)

type Option func(p *Pipeline)

// PipelineConcurrency sets how many steps of the same level can run at once.
// Values lower than 1 are ignored.
func PipelineConcurrency(concurrent int) Option {
	return func(p *Pipeline) {
		if concurrent < 1 {
			return
		}
		p.concurrent = concurrent
	}
}

// PipelineHooks registers pipeline options observing the pipeline.
func PipelineHooks(opts ...model.PipelineOption) Option {
	return func(p *Pipeline) {
		p.opts = append(p.opts, opts...)
	}
}

// PipelineStepOptions registers options for the step called stepName.
// They are applied after the options given when the step is added.
func PipelineStepOptions(stepName string, opts ...StepOption) Option {
	return func(p *Pipeline) {
		p.stepOpts[stepName] = append(p.stepOpts[stepName], opts...)
	}
}

type StepOption func(details *model.StepInfo)

// StepRetries sets how many times a failed step is retried.
func StepRetries(retries uint64) StepOption {
	return func(details *model.StepInfo) {
		details.Retries = retries
	}
}

// StepRetryDelay sets the delay between two attempts.
func StepRetryDelay(delay time.Duration) StepOption {
	return func(details *model.StepInfo) {
		details.RetryDelay = delay
	}
}

// StepTimeout bounds every attempt of the step.
func StepTimeout(timeout time.Duration) StepOption {
	return func(details *model.StepInfo) {
		details.Timeout = timeout
	}
}
