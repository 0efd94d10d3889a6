package process

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ProcessConfig describes an allow-listed external command.
type ProcessConfig struct {
	Name        string            `yaml:"name" json:"name" mapstructure:"name"`
	Command     string            `yaml:"command" json:"command" mapstructure:"command"`
	Args        []string          `yaml:"args" json:"args" mapstructure:"args"`
	Environment map[string]string `yaml:"env" json:"env" mapstructure:"env"`
	Dir         string            `yaml:"dir" json:"dir" mapstructure:"dir"`
	// PassArgs appends the request's positional arguments after Args.
	PassArgs bool `yaml:"pass_args" json:"pass_args" mapstructure:"pass_args"`
	// PTY runs the command on a pseudo-terminal when the session is decorated,
	// so that programs checking isatty emit colors.
	PTY         bool   `yaml:"pty" json:"pty" mapstructure:"pty"`
	Description string `yaml:"description" json:"description" mapstructure:"description"`
}

// ConfigFile is the structure of a commands file.
type ConfigFile struct {
	Commands []ProcessConfig `yaml:"commands" json:"commands"`
}

// LoadCommands reads a commands file (YAML or JSON) and returns the commands
// by name. A missing file yields an empty registry.
func LoadCommands(path string) (map[string]ProcessConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]ProcessConfig{}, nil
		}
		return nil, fmt.Errorf("failed to read commands config: %w", err)
	}

	var cfg ConfigFile
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}
	return Index(cfg.Commands)
}

// Index maps commands by name, rejecting unnamed or command-less entries.
func Index(commands []ProcessConfig) (map[string]ProcessConfig, error) {
	m := make(map[string]ProcessConfig, len(commands))
	for i, c := range commands {
		if c.Name == "" {
			return nil, fmt.Errorf("command #%d: missing name", i+1)
		}
		if c.Command == "" {
			return nil, fmt.Errorf("command %q: missing command", c.Name)
		}
		m[c.Name] = c
	}
	return m, nil
}
