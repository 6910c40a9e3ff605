// Package config loads editor configuration from a TOML file with
// environment-variable overrides, and watches the file for live
// reload. A missing file is not an error; defaults apply.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	toml "github.com/pelletier/go-toml/v2"
)

// ErrInvalidConfig wraps TOML parse failures.
var ErrInvalidConfig = errors.New("invalid configuration")

// EnvPrefix is the prefix for environment overrides.
const EnvPrefix = "SCRIBE_"

// Config holds the editor's tunable settings.
type Config struct {
	// LineBreaks keeps newlines produced by user edits. When false the
	// extractor strips them.
	LineBreaks bool `toml:"line_breaks"`

	// HistoryLimit caps the undo ring.
	HistoryLimit int `toml:"history_limit"`

	// LogLevel is a zerolog level name (debug, info, warn, error).
	LogLevel string `toml:"log_level"`

	// Placeholder is the hint text hosts show for empty content.
	Placeholder string `toml:"placeholder"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		LineBreaks:   true,
		HistoryLimit: 50,
		LogLevel:     "info",
		Placeholder:  "Type here",
	}
}

// Load reads the TOML file at path, applies SCRIBE_* environment
// overrides on top, and returns the result. A missing file yields the
// defaults (plus overrides); a malformed file is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err != nil && os.IsNotExist(err):
		// Defaults apply.
	case err != nil:
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Default(), fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
		}
	}

	applyEnv(&cfg)
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = Default().HistoryLimit
	}
	return cfg, nil
}

// applyEnv overlays SCRIBE_* environment variables. Unparseable values
// are ignored, best-effort.
func applyEnv(cfg *Config) {
	if v, ok := os.LookupEnv(EnvPrefix + "LINE_BREAKS"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.LineBreaks = b
		}
	}
	if v, ok := os.LookupEnv(EnvPrefix + "HISTORY_LIMIT"); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HistoryLimit = n
		}
	}
	if v, ok := os.LookupEnv(EnvPrefix + "LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := os.LookupEnv(EnvPrefix + "PLACEHOLDER"); ok {
		cfg.Placeholder = v
	}
}
