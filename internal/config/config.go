// Package config provides configuration management for panokit.
//
// Config file locations (priority order):
//  1. $PANOKIT_CONFIG
//  2. ./panokit.yaml or ./panokit.toml
//  3. $XDG_CONFIG_HOME/panokit/config.yaml
//  4. ~/.config/panokit/config.yaml
//  5. /etc/panokit/config.yaml
//
// Files ending in .toml are parsed as TOML, everything else as YAML.
// Environment variables (optionally loaded from a .env file) override
// file values and are the only source of credentials.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"panokit/internal/domain"
)

const (
	DefaultTimeout          = 10 * time.Second
	DefaultMaxLoginAttempts = 3
	DefaultFormat           = "csv"
)

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if isTOML(path) {
		err = toml.Unmarshal(data, &cfg)
	} else {
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	var (
		data []byte
		err  error
	)
	if isTOML(path) {
		data, err = toml.Marshal(c)
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}

// DefaultConfig returns sensible defaults when no config file exists
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Panorama.Timeout == 0 {
		c.Panorama.Timeout = Duration(DefaultTimeout)
	}
	if c.Panorama.MaxLoginAttempts == 0 {
		c.Panorama.MaxLoginAttempts = DefaultMaxLoginAttempts
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "."
	}
	if len(c.Output.Formats) == 0 {
		c.Output.Formats = []string{DefaultFormat}
	}
	if c.Policies.Rulebase == "" {
		c.Policies.Rulebase = domain.RulebasePre
	}
}

// Validate checks values that defaults cannot repair
func (c *Config) Validate() error {
	var errs []error

	if c.Panorama.MaxLoginAttempts < 1 {
		errs = append(errs, fmt.Errorf("panorama.max_login_attempts must be positive, got %d", c.Panorama.MaxLoginAttempts))
	}
	if c.Panorama.Timeout.Duration() < 0 {
		errs = append(errs, fmt.Errorf("panorama.timeout must not be negative"))
	}
	if !c.Policies.Rulebase.IsValid() {
		errs = append(errs, fmt.Errorf("policies.rulebase %q: must be one of pre, post, both", c.Policies.Rulebase))
	}
	for _, f := range c.Output.Formats {
		if strings.TrimSpace(f) == "" {
			errs = append(errs, errors.New("output.formats contains an empty entry"))
			break
		}
	}

	return errors.Join(errs...)
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	host := c.Panorama.Host
	if host == "" {
		host = "(prompt)"
	}
	summary := fmt.Sprintf("Panorama: %s, Timeout: %s, Verify TLS: %v\n",
		host, c.Panorama.Timeout.Duration(), !c.Panorama.SkipVerify())
	summary += fmt.Sprintf("Output: %s [%s]", c.Output.Dir, strings.Join(c.Output.Formats, ","))
	if len(c.DeviceGroups) > 0 {
		summary += fmt.Sprintf("\nDevice groups (%d): %s", len(c.DeviceGroups), strings.Join(c.DeviceGroups, ", "))
	}
	return summary
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}
