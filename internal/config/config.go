// Package config loads settings for the degrees commands from an optional
// TOML file and DEGREES_ environment variables.
//
// File format (default ~/.degrees/config.toml):
//
//	data = "/srv/datasets/large"
//	format = "markdown"
//
//	[log]
//	level = "debug"
//	format = "json"
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/latebit/degrees/internal/logging"
	"github.com/latebit/degrees/internal/report"
)

// DefaultDataDir is used when neither the file, the environment nor the
// command line names a dataset.
const DefaultDataDir = "data"

// Log holds logger settings.
type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config holds the command configuration.
type Config struct {
	DataDir string `toml:"data"`
	Format  string `toml:"format"`
	Log     Log    `toml:"log"`
}

// DefaultPath returns the default config file path (~/.degrees/config.toml).
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".degrees", "config.toml")
}

// Load reads the TOML file at path, when it exists, then applies environment
// overrides. An empty path or a missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{
		DataDir: DefaultDataDir,
		Format:  report.FormatText,
		Log:     Log{Level: "info", Format: "text"},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("read config file %q: %w", path, err)
		default:
			if _, err := toml.Decode(string(data), cfg); err != nil {
				return nil, fmt.Errorf("parse config file %q: %w", path, err)
			}
		}
	}

	cfg.DataDir = getEnv("DEGREES_DATA", cfg.DataDir)
	cfg.Format = getEnv("DEGREES_FORMAT", cfg.Format)
	cfg.Log.Level = getEnv("DEGREES_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("DEGREES_LOG_FORMAT", cfg.Log.Format)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that have a fixed set of choices.
func (c *Config) Validate() error {
	if !report.ValidFormat(c.Format) {
		return fmt.Errorf("unsupported format: %s (valid: text, markdown, html)", c.Format)
	}
	if _, ok := logging.ParseLevel(c.Log.Level); !ok {
		return fmt.Errorf("unsupported log level: %s (valid: debug, info, warn, error)", c.Log.Level)
	}
	if c.DataDir == "" {
		return fmt.Errorf("data directory is empty")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue
	}
	return value
}
