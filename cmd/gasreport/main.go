// Command gasreport renders the EU gas-infrastructure charts from the ALSI,
// AGSI and ENTSOG snapshots in DATA_DIR into FIGURES_DIR.
//
// Reports named on the command line replace REPORTS:
//
//	gasreport gas-storage pipelines
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"

	"github.com/couchcryptid/eu-gas-report/internal/adapter/dataset"
	"github.com/couchcryptid/eu-gas-report/internal/adapter/filesink"
	"github.com/couchcryptid/eu-gas-report/internal/chart"
	"github.com/couchcryptid/eu-gas-report/internal/config"
	"github.com/couchcryptid/eu-gas-report/internal/observability"
	"github.com/couchcryptid/eu-gas-report/internal/pipeline"
	"github.com/couchcryptid/eu-gas-report/internal/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runErr := run(ctx, cfg, os.Args[1:], logger, metrics)

	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			logger.Error("metrics write error", "error", err)
		}
	}
	if runErr != nil {
		logger.Error("report run failed", "error", runErr)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, args []string, logger *slog.Logger, metrics *observability.Metrics) error {
	names := cfg.Reports
	if len(args) > 0 {
		names = args
	}
	reports, err := report.Select(names)
	if err != nil {
		return err
	}

	day, err := cfg.StorageDay()
	if err != nil {
		return err
	}
	params := report.Params{StorageDay: day, SourceURL: cfg.SourceURL, DPI: cfg.DPI}

	plan, err := pipeline.NewPlan(reports, params)
	if err != nil {
		return err
	}
	order, err := plan.Order()
	if err != nil {
		return err
	}
	logger.Info("plan ready", "order", order)

	if cfg.PlanFile != "" {
		if err := writePlan(plan, cfg.PlanFile); err != nil {
			return err
		}
		logger.Info("plan written", "path", cfg.PlanFile)
	}

	renderer, err := chart.NewRenderer(cfg.RenderBackend)
	if err != nil {
		return err
	}

	loader := dataset.NewCachedLoader(dataset.NewFileLoader(cfg.DataDir, logger, metrics), cfg.DatasetCacheSize, metrics)
	writer := filesink.NewWriter(cfg.FiguresDir, logger)

	p := pipeline.New(loader, renderer, writer, logger, metrics, pipeline.Options{
		Params:      params,
		Format:      cfg.ImageFormat,
		Concurrency: cfg.Concurrency,
	})

	outcomes, err := p.Run(ctx, plan)
	if err != nil {
		return err
	}
	for _, o := range outcomes {
		logger.Debug("figure ready", "report", o.Report, "path", o.Path, "duration", o.Duration)
	}
	return nil
}

func writePlan(plan *pipeline.Plan, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create plan file")
	}
	if err := plan.WriteDOT(f); err != nil {
		f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "close plan file")
}
