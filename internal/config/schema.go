package config

import (
	"time"

	"panokit/internal/domain"
)

// Config is the root configuration structure
type Config struct {
	Version      int              `yaml:"version" toml:"version"`
	Panorama     PanoramaConfig   `yaml:"panorama" toml:"panorama"`
	DeviceGroups []string         `yaml:"device_groups,omitempty" toml:"device_groups,omitempty"`
	Output       OutputConfig     `yaml:"output" toml:"output"`
	Duplicates   DuplicatesConfig `yaml:"duplicates" toml:"duplicates"`
	Policies     PoliciesConfig   `yaml:"policies" toml:"policies"`
}

// PanoramaConfig describes how to reach the management server.
// Credentials are never read from the config file, only from the
// environment or an interactive prompt.
type PanoramaConfig struct {
	Host               string   `yaml:"host,omitempty" toml:"host,omitempty"`
	Username           string   `yaml:"username,omitempty" toml:"username,omitempty"`
	Timeout            Duration `yaml:"timeout,omitempty" toml:"timeout,omitempty"`
	InsecureSkipVerify *bool    `yaml:"insecure_skip_verify,omitempty" toml:"insecure_skip_verify,omitempty"`
	MaxLoginAttempts   int      `yaml:"max_login_attempts,omitempty" toml:"max_login_attempts,omitempty"`

	Password string `yaml:"-" toml:"-"`
	APIKey   string `yaml:"-" toml:"-"`
}

// SkipVerify reports whether TLS certificate verification is disabled.
// Management interfaces usually carry self-signed certificates, so this
// defaults to true.
func (p PanoramaConfig) SkipVerify() bool {
	if p.InsecureSkipVerify == nil {
		return true
	}
	return *p.InsecureSkipVerify
}

// OutputConfig controls where and how reports are written
type OutputConfig struct {
	Dir     string   `yaml:"dir,omitempty" toml:"dir,omitempty"`
	Formats []string `yaml:"formats,omitempty" toml:"formats,omitempty"`
	// SQLitePath appends every run to one database instead of a
	// database file per report
	SQLitePath string `yaml:"sqlite_path,omitempty" toml:"sqlite_path,omitempty"`
}

// DuplicatesConfig tunes the duplicate address object check
type DuplicatesConfig struct {
	IncludeShared     bool `yaml:"include_shared" toml:"include_shared"`
	ExemptEmptyValues bool `yaml:"exempt_empty_values" toml:"exempt_empty_values"`
}

// PoliciesConfig tunes the security policy export
type PoliciesConfig struct {
	Rulebase domain.Rulebase `yaml:"rulebase,omitempty" toml:"rulebase,omitempty"`
}

// Duration wraps time.Duration for YAML and TOML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalText implements encoding.TextUnmarshaler (used by go-toml)
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
