// Package pipeline runs a configured preparation: load a file, then apply
// encode and scale steps in order.
//
// # Basic Usage
//
//	cfg, _ := config.Load("pipeline.yaml")
//	p, err := pipeline.New(cfg, pipeline.WithLogger(log))
//	if err != nil {
//	    return err
//	}
//	res, err := p.Run(ctx)
//
// Each step receives the previous step's table and returns a new one; no
// table is modified in place. The first failing step stops the run and its
// typed error is returned with the step name attached.
package pipeline

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/ajitpratap0/tabprep/pkg/compression"
	"github.com/ajitpratap0/tabprep/pkg/config"
	"github.com/ajitpratap0/tabprep/pkg/errors"
	"github.com/ajitpratap0/tabprep/pkg/loader"
	"github.com/ajitpratap0/tabprep/pkg/logger"
	"github.com/ajitpratap0/tabprep/pkg/metrics"
	"github.com/ajitpratap0/tabprep/pkg/observability"
	"github.com/ajitpratap0/tabprep/pkg/table"
)

// Pipeline loads one input and applies its steps.
type Pipeline struct {
	cfg     *config.PipelineConfig
	steps   []Step
	loadOpt []loader.Option

	logger  *zap.Logger
	metrics *metrics.Collector
	tracer  *observability.PipelineTracer
}

// StepResult describes one executed step.
type StepResult struct {
	Name     string
	Rows     int
	Columns  int
	Duration time.Duration
}

// Result is the outcome of a successful run.
type Result struct {
	RunID             string
	Table             *table.Table
	RowsRead          int
	DuplicatesDropped int
	Compression       compression.Algorithm
	Steps             []StepResult
	Duration          time.Duration
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger; the global logger is used otherwise.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithMetrics records run metrics in c.
func WithMetrics(c *metrics.Collector) Option {
	return func(p *Pipeline) { p.metrics = c }
}

// WithTracer traces the run with t.
func WithTracer(t trace.Tracer) Option {
	return func(p *Pipeline) { p.tracer = observability.NewPipelineTracer(t, p.cfg.Name) }
}

// WithSteps appends steps after those from the configuration.
func WithSteps(steps ...Step) Option {
	return func(p *Pipeline) { p.steps = append(p.steps, steps...) }
}

// New validates cfg and builds a pipeline from it.
func New(cfg *config.PipelineConfig, opts ...Option) (*Pipeline, error) {
	if cfg == nil {
		return nil, errors.New(errors.ErrorTypeConfig, "pipeline config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	steps, err := StepsFromConfig(cfg.Steps)
	if err != nil {
		return nil, err
	}
	loadOpts, err := loaderOptions(cfg.Input)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{cfg: cfg, steps: steps, loadOpt: loadOpts}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = logger.OrGlobal(p.logger).With(zap.String("pipeline", cfg.Name))
	if p.tracer == nil {
		p.tracer = observability.NewPipelineTracer(noop.NewTracerProvider().Tracer(""), cfg.Name)
	}
	p.loadOpt = append(p.loadOpt, loader.WithLogger(p.logger))
	return p, nil
}

// Steps returns the steps in execution order.
func (p *Pipeline) Steps() []Step {
	return append([]Step(nil), p.steps...)
}

// Run loads the input and applies every step.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()
	ctx = context.WithValue(ctx, logger.RunIDKey, runID)
	ctx = context.WithValue(ctx, logger.DatasetKey, p.cfg.Input.Path)
	log := logger.FromContext(ctx, p.logger)

	log.Info("starting pipeline", zap.Int("steps", len(p.steps)))

	res := &Result{RunID: runID}
	err := p.tracer.Trace(ctx, "run", func(ctx context.Context, span *observability.Span) error {
		span.SetAttribute("run.id", runID)

		if err := p.load(ctx, res); err != nil {
			return err
		}
		for _, step := range p.steps {
			if err := p.apply(ctx, step, res); err != nil {
				return err
			}
		}
		span.SetAttribute("table.rows", res.Table.Len())
		span.SetAttribute("table.columns", res.Table.Width())
		return nil
	})
	res.Duration = time.Since(start)

	if err != nil {
		log.Error("pipeline failed",
			zap.String("error_type", string(errors.TypeOf(err))),
			zap.Error(err),
			zap.Duration("duration", res.Duration))
		return nil, err
	}

	if p.metrics != nil {
		p.metrics.RecordTable(res.Table.Len(), res.Table.Width())
	}
	log.Info("pipeline completed",
		zap.Int("rows", res.Table.Len()),
		zap.Int("columns", res.Table.Width()),
		zap.Duration("duration", res.Duration))
	return res, nil
}

func (p *Pipeline) load(ctx context.Context, res *Result) error {
	return p.tracer.Trace(ctx, "load", func(ctx context.Context, span *observability.Span) error {
		span.SetAttribute("input.path", p.cfg.Input.Path)

		lr, err := loader.Read(ctx, p.cfg.Input.Path, p.loadOpt...)
		if err != nil {
			return err
		}
		res.Table = lr.Table
		res.RowsRead = lr.RowsRead
		res.DuplicatesDropped = lr.Duplicates
		res.Compression = lr.Compression

		span.SetAttribute("rows.read", lr.RowsRead)
		span.SetAttribute("rows.duplicates", lr.Duplicates)
		if p.metrics != nil {
			p.metrics.RecordLoad(lr.RowsRead, lr.Duplicates)
		}
		logger.FromContext(ctx, p.logger).Info("dataset loaded",
			zap.Int("rows", lr.Table.Len()),
			zap.Int("duplicates_dropped", lr.Duplicates),
			zap.Strings("columns", lr.Table.Columns()))
		return nil
	})
}

func (p *Pipeline) apply(ctx context.Context, step Step, res *Result) error {
	name := step.Name()
	ctx = context.WithValue(ctx, logger.StepKey, name)
	log := logger.FromContext(ctx, p.logger)

	return p.tracer.Trace(ctx, "step", func(ctx context.Context, span *observability.Span) error {
		span.SetAttribute("step.name", name)

		if err := ctx.Err(); err != nil {
			return err
		}

		timer := metrics.NewTimer(name)
		out, err := step.Apply(ctx, res.Table)
		d := timer.Stop()
		if p.metrics != nil {
			p.metrics.RecordStep(name, d, err)
		}
		if err != nil {
			return stepError(name, err)
		}

		res.Table = out
		res.Steps = append(res.Steps, StepResult{
			Name:     name,
			Rows:     out.Len(),
			Columns:  out.Width(),
			Duration: d,
		})
		log.Debug("step completed",
			zap.Int("columns", out.Width()),
			zap.Duration("duration", d))
		return nil
	})
}

// stepError attaches the step name to err without changing its type, so
// callers can still match the original error kind and details.
func stepError(step string, err error) error {
	var typed *errors.Error
	if !stderrors.As(err, &typed) {
		return errors.Wrap(err, errors.ErrorTypeInternal, "step "+step+" failed").
			WithDetail(errors.DetailStep, step)
	}
	wrapped := errors.Wrap(err, typed.Type, "step "+step+" failed")
	for k, v := range typed.Details {
		wrapped.WithDetail(k, v)
	}
	return wrapped.WithDetail(errors.DetailStep, step)
}

func loaderOptions(in config.InputConfig) ([]loader.Option, error) {
	delim, err := in.DelimiterRune()
	if err != nil {
		return nil, err
	}
	comment, err := in.CommentRune()
	if err != nil {
		return nil, err
	}
	alg, err := compression.ParseAlgorithm(in.Compression)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "invalid input.compression")
	}

	opts := []loader.Option{
		loader.WithDelimiter(delim),
		loader.WithComment(comment),
		loader.WithTrimLeadingSpace(in.TrimLeadingSpace),
		loader.WithLazyQuotes(in.LazyQuotes),
		loader.WithCompression(alg),
	}
	if in.NullValues != nil {
		opts = append(opts, loader.WithNullValues(in.NullValues...))
	}
	return opts, nil
}
