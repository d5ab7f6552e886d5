// Package pipeline provides the orchestration layer the flows are built on.
//
// A pipeline is a named directed acyclic graph of steps. Each step is a plain Go function registered under a name,
// together with the steps it takes its input from. Registration is explicit: AddRootStep registers a step without
// input, AddStepOneToOne a step fed by the result of another step, and AddStepManyToOne a step fed by the results
// of several steps, in order. Using the same input for several steps fans the result out.
//
// Run executes the graph level by level: a step only starts once every step it depends on has completed. Steps of
// the same level run concurrently up to the limit set with PipelineConcurrency, which defaults to 1, so by default
// a pipeline is strictly sequential. Steps can be retried with a constant delay and bounded by a timeout per
// attempt.
//
// The run stops on the first error. Results of the steps that completed stay available through Result, typed by the
// step handle returned at registration.
//
// Pipeline options (see the model package) observe every stage of the life of a pipeline: registration of the
// steps, start of a run, output or failure of each step, and the end of the run. The measure, drawer and logger
// packages provide such options.
package pipeline
