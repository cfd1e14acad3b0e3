package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables read by ApplyEnv
const (
	EnvHost      = "PANORAMA_HOST"
	EnvUsername  = "PANORAMA_USERNAME"
	EnvPassword  = "PANORAMA_PASSWORD"
	EnvAPIKey    = "PANORAMA_API_KEY"
	EnvOutputDir = "PANOKIT_OUTPUT_DIR"
	EnvFormats   = "PANOKIT_FORMATS"
)

// LoadDotEnv loads variables from .env files into the process environment.
// Variables already set are left alone, and missing files are not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides config values from the environment.
// lookup is normally os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	set(EnvHost, &c.Panorama.Host)
	set(EnvUsername, &c.Panorama.Username)
	set(EnvAPIKey, &c.Panorama.APIKey)
	set(EnvOutputDir, &c.Output.Dir)

	// passwords may legitimately carry surrounding spaces
	if v, ok := lookup(EnvPassword); ok && v != "" {
		c.Panorama.Password = v
	}

	if v, ok := lookup(EnvFormats); ok && strings.TrimSpace(v) != "" {
		var formats []string
		for _, f := range strings.Split(v, ",") {
			if f = strings.TrimSpace(f); f != "" {
				formats = append(formats, f)
			}
		}
		c.Output.Formats = formats
	}
}
