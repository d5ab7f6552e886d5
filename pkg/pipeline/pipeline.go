package pipeline

import (
	"context"
	"sort"
	"sync"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/askiada/go-flows/internal/store"
	"github.com/askiada/go-flows/pkg/pipeline/model"
)

type stepRunner struct {
	details *model.StepInfo
	fn      func(ctx context.Context, run *Run) (any, error)
}

// Pipeline is a named graph of steps.
type Pipeline struct {
	mu         sync.Mutex
	name       string
	graph      graph.Graph[string, string]
	steps      map[string]*stepRunner
	index      map[string]int
	opts       []model.PipelineOption
	stepOpts   map[string][]StepOption
	concurrent int
}

// New creates a new pipeline.
func New(name string, opts ...Option) (*Pipeline, error) {
	if name == "" {
		return nil, ErrPipelineNameMustBeSet
	}

	pipe := &Pipeline{
		name:       name,
		graph:      graph.NewWithStore[string, string](graph.StringHash, store.NewMemoryStore[string, string](), graph.Directed(), graph.PreventCycles()),
		steps:      make(map[string]*stepRunner),
		index:      make(map[string]int),
		stepOpts:   make(map[string][]StepOption),
		concurrent: 1,
	}

	for _, opt := range opts {
		opt(pipe)
	}

	for _, opt := range pipe.opts {
		err := opt.New(name)
		if err != nil {
			return nil, errors.Wrap(err, "unable to apply pipeline option")
		}
	}

	return pipe, nil
}

// Name returns the name of the pipeline.
func (p *Pipeline) Name() string {
	return p.name
}

// Steps returns the steps of the pipeline, each step after the steps it depends on.
// Steps of the same level keep their registration order.
func (p *Pipeline) Steps() ([]*model.StepInfo, error) {
	levels, err := p.levels()
	if err != nil {
		return nil, err
	}

	res := []*model.StepInfo{}
	for _, level := range levels {
		for _, step := range level {
			res = append(res, step.details)
		}
	}

	return res, nil
}

// levels groups the steps by depth: a step is one level below its deepest input.
func (p *Pipeline) levels() ([][]*stepRunner, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	order, err := graph.StableTopologicalSort(p.graph, func(a, b string) bool {
		return p.index[a] < p.index[b]
	})
	if err != nil {
		return nil, errors.Wrap(err, "unable to sort steps")
	}

	predecessors, err := p.graph.PredecessorMap()
	if err != nil {
		return nil, errors.Wrap(err, "unable to get step inputs")
	}

	depth := make(map[string]int, len(order))
	levels := [][]*stepRunner{}

	for _, name := range order {
		level := 0

		for parent := range predecessors[name] {
			if depth[parent]+1 > level {
				level = depth[parent] + 1
			}
		}

		depth[name] = level
		if level == len(levels) {
			levels = append(levels, nil)
		}

		levels[level] = append(levels[level], p.steps[name])
	}

	for _, level := range levels {
		sort.Slice(level, func(i, j int) bool {
			return p.index[level[i].details.Name] < p.index[level[j].details.Name]
		})
	}

	return levels, nil
}

// Run executes every step of the pipeline and waits for them to finish.
// It stops on the first error. The returned run is never nil once the steps could be ordered.
func (p *Pipeline) Run(ctx context.Context) (*Run, error) {
	levels, err := p.levels()
	if err != nil {
		return nil, err
	}

	run := newRun(p)

	runErr := p.startRun(run)
	if runErr == nil {
		runErr = p.runLevels(ctx, run, levels)
	}

	run.finish(runErr)

	err = p.finishRun(run, runErr)
	if runErr != nil {
		return run, runErr
	}

	if err != nil {
		run.fail()
	}

	return run, err
}

func (p *Pipeline) startRun(run *Run) error {
	for _, opt := range p.opts {
		err := opt.OnRunStart(run.info)
		if err != nil {
			return errors.Wrap(err, "unable to start pipeline option")
		}
	}

	return nil
}

func (p *Pipeline) runLevels(ctx context.Context, run *Run, levels [][]*stepRunner) error {
	for _, level := range levels {
		if ctx.Err() != nil {
			return errors.Wrap(ctx.Err(), "pipeline run cancelled")
		}

		errGrp, dCtx := errgroup.WithContext(ctx)
		errGrp.SetLimit(p.concurrent)

		for _, step := range level {
			errGrp.Go(func() error {
				return p.runStep(dCtx, run, step)
			})
		}

		err := errGrp.Wait()
		if err != nil {
			return err
		}
	}

	return nil
}

func (p *Pipeline) finishRun(run *Run, runErr error) error {
	for _, opt := range p.opts {
		err := opt.Finish(run.info, run.Duration(), runErr)
		if err != nil {
			return errors.Wrap(err, "unable to finish pipeline option")
		}
	}

	return nil
}

// Execute runs the pipeline and returns the result of step.
func Execute[O any](ctx context.Context, p *Pipeline, step *Step[O]) (O, error) {
	var zero O

	if p == nil {
		return zero, ErrPipelineMustBeSet
	}

	run, err := p.Run(ctx)
	if err != nil {
		return zero, err
	}

	return Result(run, step)
}
