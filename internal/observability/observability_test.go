package observability

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.in))
		})
	}
}

func TestNewLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "info", "json")

	logger.Debug("hidden")
	logger.Info("report rendered", "report", "pipelines")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"report rendered"`)
	assert.Contains(t, out, `"report":"pipelines"`)
}

func TestNewLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "debug", "text")

	logger.Debug("dataset loaded", "rows", 11)

	assert.Contains(t, buf.String(), "msg=\"dataset loaded\" rows=11")
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	a := NewMetrics()
	b := NewMetrics()

	a.ReportsRendered.WithLabelValues("pipelines").Inc()

	assert.InDelta(t, 1.0, testutil.ToFloat64(a.ReportsRendered.WithLabelValues("pipelines")), 1e-9)
	assert.InDelta(t, 0.0, testutil.ToFloat64(b.ReportsRendered.WithLabelValues("pipelines")), 1e-9)
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.SummaryValue.WithLabelValues("gas-storage", "days_covered").Set(30)
	m.RowsLoaded.WithLabelValues("lng").Add(11)

	path := filepath.Join(t.TempDir(), "gas_report.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `gas_report_summary_value{metric="days_covered",report="gas-storage"} 30`)
	assert.Contains(t, out, `gas_report_dataset_rows_loaded_total{dataset="lng"} 11`)
}

func TestMetrics_WriteTextfile_BadPath(t *testing.T) {
	m := NewMetrics()
	err := m.WriteTextfile(filepath.Join(t.TempDir(), "missing", "dir", "x.prom"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write metrics textfile")
}
