package model

import "time"

// StepType describes how a step receives its input.
type StepType string

const (
	RootStepType   StepType = "root"
	NormalStepType StepType = "step"
	MergerStepType StepType = "merger"
)

// StepState is the state of a step within a single run.
type StepState string

const (
	StepPending   StepState = "pending"
	StepRunning   StepState = "running"
	StepCompleted StepState = "completed"
	StepFailed    StepState = "failed"
)

// StepInfo describes a step registered in a pipeline.
type StepInfo struct {
	Type StepType
	Name string
	// InputType is empty for root steps.
	InputType  string
	OutputType string
	// Parents lists the names of the steps feeding this one, in input order.
	Parents    []string
	Retries    uint64
	RetryDelay time.Duration
	Timeout    time.Duration
}

var (
	StartStep = &StepInfo{Name: "start"}
	EndStep   = &StepInfo{Name: "end"}
)
