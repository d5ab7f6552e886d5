// Package cli runs a flow from the command line.
package cli

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/askiada/go-flows/internal/config"
	"github.com/askiada/go-flows/pkg/pipeline"
	"github.com/askiada/go-flows/pkg/pipeline/drawer"
	"github.com/askiada/go-flows/pkg/pipeline/logger"
	"github.com/askiada/go-flows/pkg/pipeline/measure"
	"github.com/askiada/go-flows/pkg/pipeline/model"
)

// FlowFunc runs a flow once, printing its progress to out.
type FlowFunc func(ctx context.Context, out io.Writer, opts ...pipeline.Option) (string, error)

// Main runs the flow with the process arguments and exits.
func Main(name string, flow FlowFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := Run(ctx, name, os.Args[1:], os.Stdout, os.Stderr, flow)

	stop()
	os.Exit(code)
}

// Run parses args, runs the flow and returns the exit code.
func Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer, flow FlowFunc) int {
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(stderr)

	configPath := flags.String("config", "", "path to a YAML configuration file")
	dotFile := flags.String("dot", "", "write the flow graph in DOT format to this file after the run")
	logLevel := flags.String("log-level", "", "debug, info, warn or error (default info)")
	logFormat := flags.String("log-format", "", "text or json (default text on a terminal, json otherwise)")

	err := flags.Parse(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}

		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.New(slog.NewTextHandler(stderr, nil)).Error("invalid configuration", slog.Any("error", err))

		return 1
	}

	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}

	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}

	log, err := NewLogger(stderr, cfg.Log)
	if err != nil {
		slog.New(slog.NewTextHandler(stderr, nil)).Error("invalid logger configuration", slog.Any("error", err))

		return 1
	}

	flowCfg := cfg.Flow(name)
	if *dotFile != "" {
		flowCfg.DOT = *dotFile
	}

	_, err = flow(ctx, stdout, Options(log, flowCfg)...)
	if err != nil {
		log.Error("flow failed", slog.String("flow", name), slog.Any("error", err))

		return 1
	}

	return 0
}

// Options returns the pipeline options matching the configuration of a flow.
func Options(log *slog.Logger, flowCfg config.FlowConfig) []pipeline.Option {
	hooks := []model.PipelineOption{logger.PipelineLogger(log)}

	if flowCfg.DOT != "" {
		msr := measure.NewDefaultMeasure()
		hooks = append(hooks,
			measure.PipelineMeasure(msr),
			drawer.PipelineDrawer(drawer.NewDOTDrawer(flowCfg.DOT), msr),
		)
	}

	return append(flowCfg.Options(), pipeline.PipelineHooks(hooks...))
}

// NewLogger creates the logger writing to w.
func NewLogger(w io.Writer, cfg config.LogConfig) (*slog.Logger, error) {
	level := slog.LevelInfo
	if cfg.Level != "" {
		err := level.UnmarshalText([]byte(cfg.Level))
		if err != nil {
			return nil, errors.Wrap(err, "unable to parse log level")
		}
	}

	format := cfg.Format
	if format == "" {
		format = "json"
		if isTerminal(w) {
			format = "text"
		}
	}

	handlerOpts := &slog.HandlerOptions{Level: level}

	switch format {
	case "text":
		return slog.New(slog.NewTextHandler(w, handlerOpts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, handlerOpts)), nil
	default:
		return nil, errors.Wrapf(config.ErrInvalidLogFormat, "got %q", format)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)

	return ok && term.IsTerminal(int(f.Fd()))
}
