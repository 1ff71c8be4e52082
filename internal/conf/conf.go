// Package conf loads engine configuration from the environment.
package conf

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Config holds all configuration for the orion CLI and engine.
type Config struct {
	// Logging configuration
	LogLevel string `env:"ORION_LOG_LEVEL" envDefault:"info"`

	// Evaluation limits
	MaxBKMDepth int `env:"ORION_MAX_BKM_DEPTH" envDefault:"64"`

	// REPL configuration
	HistoryFile string `env:"ORION_HISTORY_FILE" envDefault:".orion_history"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks configured values.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	if c.MaxBKMDepth <= 0 {
		return fmt.Errorf("ORION_MAX_BKM_DEPTH must be positive, got %d", c.MaxBKMDepth)
	}
	return nil
}
