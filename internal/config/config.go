// Package config loads the optional run configuration of the flows.
package config

import (
	"bytes"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/askiada/go-flows/pkg/pipeline"
)

var (
	ErrInvalidLogFormat   = errors.New("log format must be text or json")
	ErrInvalidConcurrency = errors.New("concurrency must not be negative")
)

// Config is the root of the YAML configuration file.
type Config struct {
	Log   LogConfig             `yaml:"log"`
	Flows map[string]FlowConfig `yaml:"flows"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// FlowConfig tunes the orchestration of one flow.
type FlowConfig struct {
	// Concurrency bounds the steps of the same level running at once. 0 keeps the default.
	Concurrency int `yaml:"concurrency"`
	// DOT is the file the flow graph is written to after every run.
	DOT   string                `yaml:"dot"`
	Steps map[string]StepConfig `yaml:"steps"`
}

// StepConfig overrides the options of one step. Absent keys keep the options set in code.
type StepConfig struct {
	Retries    *uint64       `yaml:"retries"`
	RetryDelay time.Duration `yaml:"retry_delay"`
	Timeout    time.Duration `yaml:"timeout"`
}

// Load reads the file at path. An empty path returns the default configuration.
func Load(path string) (*Config, error) {
	if path == "" {
		return &Config{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read config file")
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to load %s", path)
	}

	return cfg, nil
}

// Parse decodes a YAML document. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	err := dec.Decode(cfg)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "unable to decode config")
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return errors.Wrapf(ErrInvalidLogFormat, "got %q", c.Log.Format)
	}

	for name, flow := range c.Flows {
		if flow.Concurrency < 0 {
			return errors.Wrapf(ErrInvalidConcurrency, "flow %s", name)
		}
	}

	return nil
}

// Flow returns the configuration of the flow called name, empty when the file does not mention it.
func (c *Config) Flow(name string) FlowConfig {
	return c.Flows[name]
}

// Options converts the configuration into pipeline options.
func (fc FlowConfig) Options() []pipeline.Option {
	opts := []pipeline.Option{}

	if fc.Concurrency > 0 {
		opts = append(opts, pipeline.PipelineConcurrency(fc.Concurrency))
	}

	for name, step := range fc.Steps {
		stepOpts := []pipeline.StepOption{}
		if step.Retries != nil {
			stepOpts = append(stepOpts, pipeline.StepRetries(*step.Retries))
		}

		if step.RetryDelay > 0 {
			stepOpts = append(stepOpts, pipeline.StepRetryDelay(step.RetryDelay))
		}

		if step.Timeout > 0 {
			stepOpts = append(stepOpts, pipeline.StepTimeout(step.Timeout))
		}

		opts = append(opts, pipeline.PipelineStepOptions(name, stepOpts...))
	}

	return opts
}
