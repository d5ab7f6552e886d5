package measure

import "time"

// Measure keeps one metric per step.
type Measure interface {
	AddMetric(name string) Metric
	GetMetric(name string) Metric
	AllMetrics() map[string]Metric
}

// Metric aggregates the executions of one step across runs.
type Metric interface {
	AddDuration(elapsed time.Duration)
	AddAttempts(attempts int)
	AddFailure()
	AVGDuration() time.Duration
	Total() int64
	Attempts() int64
	Failures() int64
	SetTotalDuration(endDuration time.Duration)
	GetTotalDuration() time.Duration
}
