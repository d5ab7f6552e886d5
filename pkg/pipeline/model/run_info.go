package model

import "time"

// RunState is the state of a whole pipeline run.
type RunState string

const (
	RunPending   RunState = "pending"
	RunCompleted RunState = "completed"
	RunFailed    RunState = "failed"
)

// RunInfo identifies a single execution of a pipeline.
type RunInfo struct {
	ID           string
	PipelineName string
	StartTime    time.Time
}
