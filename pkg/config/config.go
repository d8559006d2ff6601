// Package config loads the clinekit project configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/clinekit/clinekit/pkg/cmdcheck"
	"github.com/clinekit/clinekit/pkg/compat"
	"github.com/clinekit/clinekit/pkg/envcheck"
	"github.com/clinekit/clinekit/pkg/extension"
	"github.com/clinekit/clinekit/pkg/exterr"
	"github.com/clinekit/clinekit/pkg/retry"
)

// Config is the project configuration.
type Config struct {
	LogLevel          string                 `yaml:"log_level" validate:"oneof=debug info warn warning error"`
	LogFormat         string                 `yaml:"log_format" validate:"oneof=text json"`
	SettingsDir       string                 `yaml:"settings_dir"`
	Requirements      []cmdcheck.Requirement `yaml:"requirements" validate:"dive"`
	RequiredVariables []string               `yaml:"required_variables" validate:"dive,required"`
	Probe             ProbeConfig            `yaml:"probe"`
}

// ProbeConfig controls retries of version and locate probes.
type ProbeConfig struct {
	Retries  int      `yaml:"retries" validate:"min=0,max=10"`
	Delay    Duration `yaml:"delay" validate:"min=0"`
	Backoff  float64  `yaml:"backoff" validate:"gte=1"`
	MaxDelay Duration `yaml:"max_delay" validate:"min=0"`
}

// RetryConfig converts the probe settings to a retry policy. Retries of
// zero yields a single attempt; a zero delay retries without waiting.
func (p ProbeConfig) RetryConfig() retry.Config {
	delay := p.Delay.Std()
	if delay == 0 {
		delay = -1
	}
	return retry.Config{
		MaxAttempts:  p.Retries + 1,
		InitialDelay: delay,
		Backoff:      p.Backoff,
		MaxDelay:     p.MaxDelay.Std(),
	}
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel:          "warn",
		LogFormat:         "text",
		Requirements:      compat.DefaultRequirements(),
		RequiredVariables: compat.DefaultVariables(),
		Probe: ProbeConfig{
			Retries:  0,
			Delay:    Duration(retry.DefaultInitialDelay),
			Backoff:  retry.DefaultBackoff,
			MaxDelay: Duration(retry.DefaultMaxDelay),
		},
	}
}

var validate = validator.New()

// Validate checks the configuration, returning an INVALID_CONFIG error.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return exterr.New(exterr.CodeInvalidConfig, "config validation failed", err)
	}
	return nil
}

// Parse decodes a YAML document and lays it over the defaults. Keys the
// defaults do not know are ignored.
func Parse(data []byte) (Config, error) {
	base, err := toDocument(Default())
	if err != nil {
		return Config{}, err
	}

	var overlay map[string]any
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return Config{}, exterr.New(exterr.CodeInvalidConfig, "failed to parse config", err)
	}

	merged, err := yaml.Marshal(extension.DeepMerge(base, overlay))
	if err != nil {
		return Config{}, exterr.Wrap(exterr.CodeInvalidConfig, err)
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(merged))
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, exterr.New(exterr.CodeInvalidConfig, "failed to decode config", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile reads and parses the configuration at path.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the user
	if err != nil {
		return Config{}, exterr.New(exterr.CodeInvalidPath, fmt.Sprintf("failed to read %s", path), err)
	}
	return Parse(data)
}

// Load finds the configuration from startDir (or explicitPath) and parses
// it. Without a file, the defaults are returned.
func Load(startDir, explicitPath string) (Config, string, error) {
	path, err := FindFile(startDir, explicitPath)
	if errors.Is(err, ErrNotFound) {
		return Default(), "", nil
	}
	if err != nil {
		return Config{}, "", exterr.Wrap(exterr.CodeInvalidPath, err)
	}
	cfg, err := LoadFile(path)
	return cfg, path, err
}

// ApplyEnv overrides logging settings from CLINEKIT_LOG_LEVEL and
// CLINEKIT_LOG_FORMAT.
func (c *Config) ApplyEnv(g envcheck.Getter) {
	if v, ok := g.LookupEnv("CLINEKIT_LOG_LEVEL"); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := g.LookupEnv("CLINEKIT_LOG_FORMAT"); ok && v != "" {
		c.LogFormat = v
	}
}

func toDocument(cfg Config) (map[string]any, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, exterr.Wrap(exterr.CodeInvalidConfig, err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, exterr.Wrap(exterr.CodeInvalidConfig, err)
	}
	return doc, nil
}
