// Package config holds the hill-cli configuration, read from an optional YAML
// file and overridden by HILL_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	hill "github.com/BackendStack21/hill-go"
	"github.com/BackendStack21/hill-go/core"
	"github.com/BackendStack21/hill-go/utils"
)

// Config is the resolved CLI configuration.
type Config struct {
	Domain    hill.Domain `yaml:"domain"`
	Dimension int         `yaml:"dimension"` // 0 selects the domain default
	Seed      string      `yaml:"seed"`      // optional seed for reproducible key generation
	KeyFile   string      `yaml:"key_file"`
	LogLevel  string      `yaml:"log_level"` // debug, info, warn, error
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Domain:    hill.DomainText,
		Dimension: 0,
		Seed:      "",
		KeyFile:   "",
		LogLevel:  "info",
	}
}

// Load reads the YAML file at path over the defaults and applies environment
// overrides. An empty path or a missing file leaves the defaults in place.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if val := strings.TrimSpace(os.Getenv("HILL_DOMAIN")); val != "" {
		cfg.Domain = hill.Domain(val)
	}
	if val := strings.TrimSpace(os.Getenv("HILL_DIMENSION")); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			cfg.Dimension = parsed
		}
	}
	if val := strings.TrimSpace(os.Getenv("HILL_SEED")); val != "" {
		cfg.Seed = val
	}
	if val := strings.TrimSpace(os.Getenv("HILL_KEY_FILE")); val != "" {
		cfg.KeyFile = val
	}
	if val := strings.TrimSpace(os.Getenv("HILL_LOG_LEVEL")); val != "" {
		cfg.LogLevel = val
	}
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if _, err := core.GetParams(c.Domain); err != nil {
		return err
	}
	if c.Dimension < 0 || c.Dimension > utils.MaxDimension {
		return fmt.Errorf("dimension must be between 0 and %d (got %d)", utils.MaxDimension, c.Dimension)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn or error (got %q)", c.LogLevel)
	}
	return nil
}

// Params returns the domain parameters with the configured dimension applied.
func (c *Config) Params() (core.DomainParams, error) {
	params, err := core.GetParams(c.Domain)
	if err != nil {
		return core.DomainParams{}, err
	}
	if c.Dimension > 0 {
		params.Dimension = c.Dimension
	}
	return params, nil
}

// Save writes the configuration as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}
