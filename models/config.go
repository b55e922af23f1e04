// Package models defines the runtime configuration of a count run.
package models

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/cjkfreq/pkg/failure"
	"github.com/dtnitsch/cjkfreq/pkg/partition"
)

// CountConfig holds runtime configuration for a count run.
// Values come from an optional YAML file, overridden by CLI flags.
type CountConfig struct {
	Files          []string `yaml:"files"`
	Excludes       string   `yaml:"excludes"`
	Workers        int      `yaml:"workers"`
	Strategy       string   `yaml:"strategy"`
	Dict           string   `yaml:"dict"`
	HTML           bool     `yaml:"html"`
	SkipUnreadable bool     `yaml:"skip_unreadable"`
	DetectLanguage bool     `yaml:"detect_language"`
	DB             string   `yaml:"db"`
	Summary        string   `yaml:"summary"`
	Limit          int      `yaml:"limit"`
}

// LoadConfig reads a YAML config file. Unknown keys are rejected.
func LoadConfig(path string) (*CountConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &failure.ConfigError{Path: path, Err: err}
	}
	defer f.Close()

	cfg := &CountConfig{}
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, &failure.ConfigError{Path: path, Err: fmt.Errorf("parse yaml: %w", err)}
	}
	return cfg, nil
}

// Validate checks value ranges and normalizes the strategy name.
func (c *CountConfig) Validate() error {
	strategy, err := partition.ParseStrategy(c.Strategy)
	if err != nil {
		return &failure.ConfigError{Err: err}
	}
	c.Strategy = string(strategy)
	if c.Workers < 0 {
		return &failure.ConfigError{Err: fmt.Errorf("workers must not be negative, got %d", c.Workers)}
	}
	if c.Limit < 0 {
		return &failure.ConfigError{Err: fmt.Errorf("limit must not be negative, got %d", c.Limit)}
	}
	return nil
}
