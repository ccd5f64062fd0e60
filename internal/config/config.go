// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads cqplot settings from YAML and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/curioloop/cqplot/diagram"
	"github.com/curioloop/cqplot/render"
)

// DefaultPath is read when no configuration file is named.
const DefaultPath = "cqplot.yaml"

// Config holds every setting of a cqplot run.
type Config struct {
	OutputDir   string        `yaml:"output_dir"`
	Format      string        `yaml:"format"`
	DPI         float64       `yaml:"dpi"`
	Concurrency int           `yaml:"concurrency"`
	Progress    bool          `yaml:"progress"`
	Font        FontConfig    `yaml:"font"`
	Diagrams    []string      `yaml:"diagrams,omitempty"`
	Logging     LoggingConfig `yaml:"logging"`
}

// FontConfig selects the text typeface.
type FontConfig struct {
	Typeface string `yaml:"typeface"`
	Variant  string `yaml:"variant"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// DefaultConfig returns the settings used when nothing overrides them.
func DefaultConfig() *Config {
	return &Config{
		OutputDir: ".",
		Format:    "png",
		DPI:       300,
		Font: FontConfig{
			Typeface: string(render.Liberation),
			Variant:  "Sans",
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads path over the defaults and applies environment overrides.
// An empty path reads DefaultPath when it exists.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	if dir := os.Getenv("CQPLOT_OUT"); dir != "" {
		c.OutputDir = dir
	}
	if format := os.Getenv("CQPLOT_FORMAT"); format != "" {
		c.Format = format
	}
	if dpi := os.Getenv("CQPLOT_DPI"); dpi != "" {
		v, err := strconv.ParseFloat(dpi, 64)
		if err != nil {
			return fmt.Errorf("invalid CQPLOT_DPI %q: %w", dpi, err)
		}
		c.DPI = v
	}
	return nil
}

// Validate rejects settings no run could honour.
func (c *Config) Validate() error {
	c.Format = strings.ToLower(c.Format)
	if !slices.Contains(render.Formats, c.Format) {
		return fmt.Errorf("invalid format: %s (valid: %v)", c.Format, render.Formats)
	}
	if c.DPI < 1 {
		return fmt.Errorf("invalid dpi: %g", c.DPI)
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("invalid concurrency: %d", c.Concurrency)
	}
	for _, n := range c.Diagrams {
		if _, ok := diagram.Lookup(n); !ok {
			return fmt.Errorf("unknown diagram %q in config", n)
		}
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid logging level: %w", err)
	}
	return nil
}

// Style resolves the configured font.
func (c *Config) Style() (render.Style, error) {
	return render.NewStyle(c.Font.Typeface, c.Font.Variant)
}

// Logger builds a zap logger; verbose forces the debug level.
func (c *Config) Logger(verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if c.Logging.Development {
		zc = zap.NewDevelopmentConfig()
	}
	level, err := zapcore.ParseLevel(c.Logging.Level)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
