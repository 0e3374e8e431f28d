// Package config loads pocketcalc settings from YAML with environment
// overrides.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable of a calculator session.
type Config struct {
	MaxLength int           `yaml:"max_length"`
	Precision int           `yaml:"precision"`
	History   HistoryConfig `yaml:"history"`
	Log       LogConfig     `yaml:"log"`
}

// HistoryConfig selects the calculation tape backend.
type HistoryConfig struct {
	Backend string `yaml:"backend"` // memory or sqlite
	Limit   int    `yaml:"limit"`   // entries kept per session, 0 keeps all
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// Backend names.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		MaxLength: 25,
		Precision: 6,
		History: HistoryConfig{
			Backend: BackendMemory,
			Limit:   100,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Load returns the defaults, merged with the YAML file at path when path is
// non-empty, then environment overrides, then validated.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if err := loadAndMerge(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// loadAndMerge decodes a YAML file over cfg. Keys absent from the file keep
// their current values.
func loadAndMerge(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing YAML: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("POCKETCALC_MAX_LENGTH"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("POCKETCALC_MAX_LENGTH: %w", err)
		}
		cfg.MaxLength = n
	}
	if v := os.Getenv("POCKETCALC_PRECISION"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("POCKETCALC_PRECISION: %w", err)
		}
		cfg.Precision = n
	}
	if v := os.Getenv("POCKETCALC_HISTORY_BACKEND"); v != "" {
		cfg.History.Backend = v
	}
	if v := os.Getenv("POCKETCALC_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("POCKETCALC_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	return nil
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	if c.MaxLength <= 0 {
		return fmt.Errorf("max_length must be positive, got %d", c.MaxLength)
	}
	if c.Precision < 0 || c.Precision > 15 {
		return fmt.Errorf("precision must be between 0 and 15, got %d", c.Precision)
	}
	switch c.History.Backend {
	case BackendMemory, BackendSQLite:
	default:
		return fmt.Errorf("history.backend must be %q or %q, got %q", BackendMemory, BackendSQLite, c.History.Backend)
	}
	if c.History.Limit < 0 {
		return fmt.Errorf("history.limit must not be negative, got %d", c.History.Limit)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be \"text\" or \"json\", got %q", c.Log.Format)
	}
	return nil
}

// SlogLevel parses Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}
