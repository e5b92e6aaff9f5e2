package config

import (
	"context"
	"fmt"

	"dataviz-studio/internal/models"

	"github.com/sethvargo/go-envconfig"
)

// EnvPrefix is prepended to every variable name below
const EnvPrefix = "DATAVIZ_"

// Config holds the runtime settings read from the environment
type Config struct {
	// Logging
	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=console"`

	// Worker pool
	Workers   int `env:"WORKERS,default=4"`
	QueueSize int `env:"QUEUE_SIZE,default=64"`

	// Dataset shown at startup
	SampleKind string `env:"SAMPLE_KIND,default=Sinusoidal"`
	SampleSize int    `env:"SAMPLE_SIZE,default=500"`

	// Chart rendering and export
	ExportDir   string `env:"EXPORT_DIR,default=./exports"`
	ChartWidth  int    `env:"CHART_WIDTH,default=960"`
	ChartHeight int    `env:"CHART_HEIGHT,default=540"`
}

// Load reads configuration from DATAVIZ_* environment variables
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration through the given lookuper
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: envconfig.PrefixLookuper(EnvPrefix, lookuper),
	}); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that envconfig cannot express as tags
func (c *Config) Validate() error {
	if c.Workers <= 0 {
		return models.NewValidationError("WORKERS", c.Workers, "must be positive")
	}
	if c.QueueSize <= 0 {
		return models.NewValidationError("QUEUE_SIZE", c.QueueSize, "must be positive")
	}
	if c.SampleSize <= 0 {
		return models.NewValidationError("SAMPLE_SIZE", c.SampleSize, "must be positive")
	}
	if _, ok := models.LookupGeneratorKind(c.SampleKind); !ok {
		return models.NewValidationError("SAMPLE_KIND", c.SampleKind, "unknown generator kind")
	}
	if c.ChartWidth <= 0 || c.ChartHeight <= 0 {
		return models.NewValidationError("CHART_WIDTH/CHART_HEIGHT", fmt.Sprintf("%dx%d", c.ChartWidth, c.ChartHeight), "must be positive")
	}
	return nil
}

// SampleGeneratorKind returns the startup dataset kind
func (c *Config) SampleGeneratorKind() models.GeneratorKind {
	return models.ParseGeneratorKind(c.SampleKind)
}
