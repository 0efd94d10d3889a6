// Package config loads the consolehttp server configuration from a YAML file
// and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/aretw0/consolehttp/pkg/adapters/process"
	"github.com/aretw0/consolehttp/pkg/theme"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Environment variables overriding the file.
const (
	EnvListen   = "CONSOLEHTTP_LISTEN"
	EnvLogLevel = "CONSOLEHTTP_LOG_LEVEL"
)

// Config is the server configuration.
type Config struct {
	Listen   string `mapstructure:"listen"`
	LogLevel string `mapstructure:"log_level"`
	// Theme names a built-in theme; Colors overrides some of its colors.
	Theme   string            `mapstructure:"theme"`
	Colors  map[string]string `mapstructure:"colors"`
	Classes bool              `mapstructure:"classes"`
	// Decorated is the capability assumed for clients sending neither
	// --ansi nor --no-ansi.
	Decorated      bool                    `mapstructure:"decorated"`
	DefaultOptions []string                `mapstructure:"default_options"`
	WriteTimeout   time.Duration           `mapstructure:"write_timeout"`
	MaxTokenSize   int                     `mapstructure:"max_token_size"`
	Commands       []process.ProcessConfig `mapstructure:"commands"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Listen:       ":8080",
		LogLevel:     "info",
		Decorated:    true,
		MaxTokenSize: 4096,
	}
}

// Load reads path over the defaults, then applies environment overrides.
// An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := cfg.decode(data); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv(os.Getenv)
	return cfg, cfg.Validate()
}

func (c *Config) decode(data []byte) error {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      c,
		ErrorUnused: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv(EnvListen); v != "" {
		c.Listen = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
}

// Validate checks the values that cannot be checked while decoding.
func (c Config) Validate() error {
	var errs []error
	if c.Listen == "" {
		errs = append(errs, errors.New("listen: empty address"))
	}
	if c.WriteTimeout < 0 {
		errs = append(errs, errors.New("write_timeout: negative duration"))
	}
	if c.MaxTokenSize < 0 {
		errs = append(errs, errors.New("max_token_size: negative size"))
	}
	if _, err := c.BuildTheme(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Registry(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// BuildTheme returns the named theme with the color overrides applied.
func (c Config) BuildTheme() (*theme.Theme, error) {
	th, err := theme.Lookup(c.Theme)
	if err != nil {
		return nil, fmt.Errorf("theme: %w", err)
	}
	if len(c.Colors) == 0 {
		return th, nil
	}
	th, err = th.Extend(c.Colors)
	if err != nil {
		return nil, fmt.Errorf("colors: %w", err)
	}
	return th, nil
}

// Registry returns the allow-listed commands by name.
func (c Config) Registry() (map[string]process.ProcessConfig, error) {
	reg, err := process.Index(c.Commands)
	if err != nil {
		return nil, fmt.Errorf("commands: %w", err)
	}
	return reg, nil
}
