// Package model provides the data structures shared by the pipeline package and its options.
// It defines the step and run descriptions handed to pipeline options,
// and the interface every pipeline option has to implement.
package model
