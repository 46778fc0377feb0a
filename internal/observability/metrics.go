package observability

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for a report run.
// The tool exits after one run, so metrics are exported as a node_exporter
// textfile rather than scraped.
type Metrics struct {
	registry *prometheus.Registry

	ReportsRendered *prometheus.CounterVec // labels: report
	ReportErrors    *prometheus.CounterVec // labels: report, stage={extract,build,render,write}
	RenderDuration  *prometheus.HistogramVec

	// Dataset metrics.
	RowsLoaded   *prometheus.CounterVec // labels: dataset
	DatasetCache *prometheus.CounterVec // labels: result={hit,miss,shared}

	// SummaryValue exposes the derived numbers printed on each chart.
	SummaryValue *prometheus.GaugeVec // labels: report, metric

	LastRunTimestamp prometheus.Gauge
}

// NewMetrics creates all run metrics on a private registry. Each call returns an
// independent set, so tests can construct as many as they need.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ReportsRendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gas_report",
			Name:      "reports_rendered_total",
			Help:      "Reports rendered and written to disk.",
		}, []string{"report"}),
		ReportErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gas_report",
			Name:      "report_errors_total",
			Help:      "Report failures by pipeline stage.",
		}, []string{"report", "stage"}),
		RenderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "gas_report",
			Name:      "render_duration_seconds",
			Help:      "Time spent rendering a figure.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"report", "backend"}),
		RowsLoaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gas_report",
			Name:      "dataset_rows_loaded_total",
			Help:      "Rows read from dataset files.",
		}, []string{"dataset"}),
		DatasetCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gas_report",
			Name:      "dataset_cache_total",
			Help:      "Dataset cache lookups by result.",
		}, []string{"result"}),
		SummaryValue: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "gas_report",
			Name:      "summary_value",
			Help:      "Summary figures derived by each report.",
		}, []string{"report", "metric"}),
		LastRunTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gas_report",
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last completed run.",
		}),
	}

	m.registry.MustRegister(
		m.ReportsRendered,
		m.ReportErrors,
		m.RenderDuration,
		m.RowsLoaded,
		m.DatasetCache,
		m.SummaryValue,
		m.LastRunTimestamp,
	)

	return m
}

// Gatherer exposes the private registry, mainly for tests.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteTextfile writes all metrics in the text exposition format. The write is
// atomic (temp file + rename).
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return errors.Wrapf(err, "write metrics textfile %s", path)
	}
	return nil
}
