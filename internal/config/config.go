package config

import (
	"slices"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

// StorageDateLayout is the layout of STORAGE_DATE and of the gas day in AGSI file names.
const StorageDateLayout = "2006-01-02"

// Config holds all tool settings, populated from environment variables.
type Config struct {
	DataDir    string   `envconfig:"DATA_DIR" default:"data"`
	FiguresDir string   `envconfig:"FIGURES_DIR" default:"figures"`
	Reports    []string `envconfig:"REPORTS" default:"lng-send-out,lng-capacities,gas-storage,pipelines"`

	// StorageDate is the gas day of the AGSI snapshot used by the storage report.
	StorageDate string `envconfig:"STORAGE_DATE" default:"2024-01-20"`

	RenderBackend string `envconfig:"RENDER_BACKEND" default:"gonum"`
	ImageFormat   string `envconfig:"IMAGE_FORMAT" default:"jpg"`
	DPI           int    `envconfig:"DPI" default:"300"`

	Concurrency      int    `envconfig:"CONCURRENCY" default:"2"`
	DatasetCacheSize int    `envconfig:"DATASET_CACHE_SIZE" default:"8"`
	SourceURL        string `envconfig:"SOURCE_URL" default:"https://github.com/cristobal-GC/energy/blob/main"`

	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat   string `envconfig:"LOG_FORMAT" default:"text"`
	MetricsFile string `envconfig:"METRICS_FILE"`
	PlanFile    string `envconfig:"PLAN_FILE"`
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "process environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges and enumerations that struct tags cannot express.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DataDir) == "" {
		return errors.New("DATA_DIR is required")
	}
	if strings.TrimSpace(c.FiguresDir) == "" {
		return errors.New("FIGURES_DIR is required")
	}
	if len(c.Reports) == 0 {
		return errors.New("REPORTS must name at least one report")
	}
	if _, err := c.StorageDay(); err != nil {
		return err
	}
	if !slices.Contains([]string{"gonum", "gochart"}, c.RenderBackend) {
		return errors.Errorf("invalid RENDER_BACKEND %q: want gonum or gochart", c.RenderBackend)
	}
	c.ImageFormat = strings.ToLower(strings.TrimPrefix(c.ImageFormat, "."))
	if c.ImageFormat == "" {
		return errors.New("IMAGE_FORMAT is required")
	}
	if c.DPI < 72 || c.DPI > 1200 {
		return errors.Errorf("invalid DPI %d: must be between 72 and 1200", c.DPI)
	}
	if c.Concurrency < 1 || c.Concurrency > 16 {
		return errors.Errorf("invalid CONCURRENCY %d: must be between 1 and 16", c.Concurrency)
	}
	if c.DatasetCacheSize < 1 {
		return errors.Errorf("invalid DATASET_CACHE_SIZE %d: must be positive", c.DatasetCacheSize)
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if !slices.Contains([]string{"debug", "info", "warn", "warning", "error"}, c.LogLevel) {
		return errors.Errorf("invalid LOG_LEVEL %q: want debug, info, warn or error", c.LogLevel)
	}
	if !slices.Contains([]string{"json", "text"}, c.LogFormat) {
		return errors.Errorf("invalid LOG_FORMAT %q: want json or text", c.LogFormat)
	}
	return nil
}

// StorageDay parses StorageDate.
func (c *Config) StorageDay() (time.Time, error) {
	day, err := time.Parse(StorageDateLayout, c.StorageDate)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "invalid STORAGE_DATE %q", c.StorageDate)
	}
	return day, nil
}
