package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "figures", cfg.FiguresDir)
	assert.Equal(t, []string{"lng-send-out", "lng-capacities", "gas-storage", "pipelines"}, cfg.Reports)
	assert.Equal(t, "2024-01-20", cfg.StorageDate)
	assert.Equal(t, "gonum", cfg.RenderBackend)
	assert.Equal(t, "jpg", cfg.ImageFormat)
	assert.Equal(t, 300, cfg.DPI)
	assert.Equal(t, 2, cfg.Concurrency)
	assert.Equal(t, 8, cfg.DatasetCacheSize)
	assert.Equal(t, "https://github.com/cristobal-GC/energy/blob/main", cfg.SourceURL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Empty(t, cfg.MetricsFile)
	assert.Empty(t, cfg.PlanFile)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("DATA_DIR", "/srv/gas/data")
	t.Setenv("FIGURES_DIR", "/srv/gas/out")
	t.Setenv("REPORTS", "pipelines,gas-storage")
	t.Setenv("STORAGE_DATE", "2023-11-01")
	t.Setenv("RENDER_BACKEND", "gochart")
	t.Setenv("IMAGE_FORMAT", ".PNG")
	t.Setenv("DPI", "150")
	t.Setenv("CONCURRENCY", "4")
	t.Setenv("DATASET_CACHE_SIZE", "2")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("METRICS_FILE", "/var/lib/node_exporter/gas.prom")
	t.Setenv("PLAN_FILE", "plan.dot")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/srv/gas/data", cfg.DataDir)
	assert.Equal(t, "/srv/gas/out", cfg.FiguresDir)
	assert.Equal(t, []string{"pipelines", "gas-storage"}, cfg.Reports)
	assert.Equal(t, "gochart", cfg.RenderBackend)
	assert.Equal(t, "png", cfg.ImageFormat)
	assert.Equal(t, 150, cfg.DPI)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, 2, cfg.DatasetCacheSize)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "/var/lib/node_exporter/gas.prom", cfg.MetricsFile)
	assert.Equal(t, "plan.dot", cfg.PlanFile)

	day, err := cfg.StorageDay()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, time.November, 1, 0, 0, 0, 0, time.UTC), day)
}

func TestLoad_InvalidStorageDate(t *testing.T) {
	t.Setenv("STORAGE_DATE", "20/01/2024")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORAGE_DATE")
}

func TestLoad_InvalidBackend(t *testing.T) {
	t.Setenv("RENDER_BACKEND", "matplotlib")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RENDER_BACKEND")
}

func TestLoad_DPIOutOfRange(t *testing.T) {
	t.Setenv("DPI", "20")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DPI")
}

func TestLoad_NonNumericDPI(t *testing.T) {
	t.Setenv("DPI", "high")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DPI")
}

func TestLoad_ConcurrencyTooLarge(t *testing.T) {
	t.Setenv("CONCURRENCY", "64")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CONCURRENCY")
}

func TestLoad_InvalidCacheSize(t *testing.T) {
	t.Setenv("DATASET_CACHE_SIZE", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATASET_CACHE_SIZE")
}

func TestLoad_InvalidLogFormat(t *testing.T) {
	t.Setenv("LOG_FORMAT", "xml")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOG_FORMAT")
}

func TestLoad_EmptyDataDir(t *testing.T) {
	t.Setenv("DATA_DIR", " ")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATA_DIR")
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "verbose")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOG_LEVEL")
}

func TestLoad_LogLevelCaseInsensitive(t *testing.T) {
	t.Setenv("LOG_LEVEL", " WARN ")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
}
