package pipeline

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/eu-gas-report/internal/adapter/dataset"
	"github.com/couchcryptid/eu-gas-report/internal/chart"
	"github.com/couchcryptid/eu-gas-report/internal/domain"
	"github.com/couchcryptid/eu-gas-report/internal/observability"
	"github.com/couchcryptid/eu-gas-report/internal/report"
)

// Stage names used in logs and error metrics.
const (
	StageExtract = "extract"
	StageBuild   = "build"
	StageRender  = "render"
	StageWrite   = "write"
)

// FigureWriter stores an encoded figure under name and returns where it went.
type FigureWriter interface {
	Write(ctx context.Context, name string, encode func(io.Writer) error) (string, error)
}

// Options tune a run.
type Options struct {
	Params      report.Params
	Format      string
	Concurrency int
}

// Outcome describes one finished report.
type Outcome struct {
	Report   string
	Path     string
	Summary  report.Summary
	Duration time.Duration
}

// Pipeline runs reports through extract, build, render and write.
type Pipeline struct {
	loader   dataset.Loader
	renderer chart.Renderer
	writer   FigureWriter
	logger   *slog.Logger
	metrics  *observability.Metrics
	opts     Options
}

// New creates a Pipeline with the given stages and observability.
func New(l dataset.Loader, r chart.Renderer, w FigureWriter, logger *slog.Logger, metrics *observability.Metrics, opts Options) *Pipeline {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Pipeline{
		loader:   l,
		renderer: r,
		writer:   w,
		logger:   logger,
		metrics:  metrics,
		opts:     opts,
	}
}

// Run executes every report in the plan with at most Concurrency in flight.
// The first failure cancels the remaining reports and is returned wrapped
// with the report name. Outcomes follow the plan's report order.
func (p *Pipeline) Run(ctx context.Context, plan *Plan) ([]Outcome, error) {
	if !chart.Supports(p.renderer, p.opts.Format) {
		return nil, errors.Wrapf(chart.ErrUnsupportedFormat, "%s backend cannot write %q", p.renderer.Name(), p.opts.Format)
	}

	reports := plan.Reports()
	p.logger.Info("run started",
		"reports", len(reports),
		"backend", p.renderer.Name(),
		"format", p.opts.Format,
		"concurrency", p.opts.Concurrency,
	)

	outcomes := make([]Outcome, len(reports))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Concurrency)
	for i, r := range reports {
		i, r := i, r
		g.Go(func() error {
			out, err := p.runReport(gctx, r)
			if err != nil {
				return errors.Wrapf(err, "report %s", r.Name())
			}
			outcomes[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		p.logger.Error("run failed", "error", err)
		return nil, err
	}

	p.metrics.LastRunTimestamp.Set(float64(domain.Now().Unix()))
	p.logger.Info("run finished", "reports", len(outcomes))
	return outcomes, nil
}

// runReport takes one report through all stages.
func (p *Pipeline) runReport(ctx context.Context, r report.Report) (Outcome, error) {
	start := time.Now()
	name := r.Name()
	logger := p.logger.With("report", name)

	frames, err := p.extract(ctx, r)
	if err != nil {
		return Outcome{}, p.fail(name, StageExtract, err)
	}

	res, err := r.Build(frames, p.opts.Params)
	if err != nil {
		return Outcome{}, p.fail(name, StageBuild, err)
	}

	renderStart := time.Now()
	var buf bytes.Buffer
	if err := p.renderer.Render(res.Figure, p.opts.Format, &buf); err != nil {
		return Outcome{}, p.fail(name, StageRender, err)
	}
	p.metrics.RenderDuration.WithLabelValues(name, p.renderer.Name()).Observe(time.Since(renderStart).Seconds())

	path, err := p.writer.Write(ctx, res.Output+"."+p.opts.Format, func(w io.Writer) error {
		_, err := buf.WriteTo(w)
		return err
	})
	if err != nil {
		return Outcome{}, p.fail(name, StageWrite, err)
	}

	for _, m := range res.Summary {
		p.metrics.SummaryValue.WithLabelValues(name, m.Name).Set(m.Value)
	}
	p.metrics.ReportsRendered.WithLabelValues(name).Inc()

	elapsed := time.Since(start)
	logger.Info("report written", append([]any{"path", path, "duration", elapsed}, res.Summary.LogAttrs()...)...)
	return Outcome{Report: name, Path: path, Summary: res.Summary, Duration: elapsed}, nil
}

// extract loads the report's datasets keyed by dataset ID.
func (p *Pipeline) extract(ctx context.Context, r report.Report) (map[string]dataframe.DataFrame, error) {
	specs := r.Datasets(p.opts.Params)
	frames := make(map[string]dataframe.DataFrame, len(specs))
	for _, spec := range specs {
		df, err := p.loader.Load(ctx, spec)
		if err != nil {
			return nil, err
		}
		frames[spec.ID] = df
	}
	return frames, nil
}

func (p *Pipeline) fail(name, stage string, err error) error {
	if errors.Is(err, context.Canceled) {
		return errors.Wrap(err, stage)
	}
	p.metrics.ReportErrors.WithLabelValues(name, stage).Inc()
	p.logger.Error("report failed", "report", name, "stage", stage, "error", err)
	return errors.Wrap(err, stage)
}
