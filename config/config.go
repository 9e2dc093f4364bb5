// Package config loads engine settings from YAML.
package config

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/loopkit/logging"
)

// Config holds the tunable engine settings.
type Config struct {
	// Role is the label attached to logs and metrics.
	Role string `yaml:"role"`

	// MaxContinues caps continue requests per run; zero means unlimited.
	MaxContinues int `yaml:"max_continues"`

	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
	// Format is json or text.
	Format string `yaml:"format"`
	// AddSource includes the caller's file and line in each record.
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig configures the Prometheus collector.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the baseline configuration.
func Default() *Config {
	return &Config{
		Role: "routine",
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads and parses the YAML file at path on top of the defaults.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse decodes YAML from r on top of the defaults.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(cfg); err != nil {
		if err == io.EOF {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log level %q", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "", "json", "text":
	default:
		return fmt.Errorf("config: unknown log format %q", c.Logging.Format)
	}

	if c.MaxContinues < 0 {
		return fmt.Errorf("config: max_continues must not be negative, got %d", c.MaxContinues)
	}

	return nil
}

// LogLevel maps the configured level string onto logging.LogLevel.
func (c *Config) LogLevel() logging.LogLevel {
	switch c.Logging.Level {
	case "debug":
		return logging.LogLevelDebug
	case "warn":
		return logging.LogLevelWarn
	case "error":
		return logging.LogLevelError
	default:
		return logging.LogLevelInfo
	}
}

// BuildLogger constructs the logger described by the configuration.
func (c *Config) BuildLogger() logging.Logger {
	return logging.NewSlogLogger(c.LogLevel(), c.Logging.Format, c.Logging.AddSource)
}
