// Package config provides configuration loading and management for segfeatures.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"segfeatures/pkg/features"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Reference is a labelled normalized feature vector used for matching
type Reference struct {
	Label  string    `yaml:"label"`
	Vector []float64 `yaml:"vector"`
}

// Config represents the application configuration loaded from YAML
type Config struct {
	// Segmentation parameters
	Segmentation struct {
		// Rows is the number of segments along the vertical axis
		Rows int `yaml:"rows"`

		// Cols is the number of segments along the horizontal axis
		Cols int `yaml:"cols"`

		// Threshold is the intensity below which a pixel counts as dark
		Threshold int `yaml:"threshold"`
	} `yaml:"segmentation"`

	// Output parameters
	Output struct {
		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`

		// Summary prints distribution statistics after the vectors
		Summary bool `yaml:"summary"`

		// OverlayPath, when set, receives a rendering of the segment grid
		OverlayPath string `yaml:"overlayPath"`

		// OverlayScale enlarges the overlay so small images stay legible
		OverlayScale int `yaml:"overlayScale"`
	} `yaml:"output"`

	// Matching parameters
	Matching struct {
		// MaxDistance rejects matches farther than this; 0 disables the limit
		MaxDistance float64 `yaml:"maxDistance"`

		// References are the labelled vectors an image is compared against
		References []Reference `yaml:"references,omitempty"`
	} `yaml:"matching"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// Set default segmentation parameters
	cfg.Segmentation.Rows = features.DefaultRows
	cfg.Segmentation.Cols = features.DefaultCols
	cfg.Segmentation.Threshold = features.DefaultThreshold

	// Set default output parameters
	cfg.Output.Verbose = false
	cfg.Output.Summary = false
	cfg.Output.OverlayScale = 1

	return cfg
}

// Params returns the segmentation section as pipeline parameters
func (c *Config) Params() features.Params {
	return features.Params{
		Rows:      c.Segmentation.Rows,
		Cols:      c.Segmentation.Cols,
		Threshold: c.Segmentation.Threshold,
	}
}

// Validate checks the configuration for values the pipeline cannot use
func (c *Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if c.Output.OverlayScale < 1 {
		return fmt.Errorf("%w: overlayScale must be at least 1, got %d", ErrInvalidConfig, c.Output.OverlayScale)
	}

	if c.Matching.MaxDistance < 0 {
		return fmt.Errorf("%w: maxDistance must not be negative", ErrInvalidConfig)
	}

	dims := -1
	for i, ref := range c.Matching.References {
		if ref.Label == "" {
			return fmt.Errorf("%w: reference %d has no label", ErrInvalidConfig, i)
		}
		if len(ref.Vector) == 0 {
			return fmt.Errorf("%w: reference %q has an empty vector", ErrInvalidConfig, ref.Label)
		}
		if dims >= 0 && len(ref.Vector) != dims {
			return fmt.Errorf("%w: reference %q has %d values, expected %d",
				ErrInvalidConfig, ref.Label, len(ref.Vector), dims)
		}
		dims = len(ref.Vector)
	}

	return nil
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SaveConfig writes cfg as YAML, creating parent directories as needed
func SaveConfig(cfg *Config, configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile writes DefaultConfig to configPath, the target of
// the -init-config flag
func CreateDefaultConfigFile(configPath string) error {
	return SaveConfig(DefaultConfig(), configPath)
}
