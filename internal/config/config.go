// Package config loads vpatch configuration from a YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Workspace struct {
		Root string `yaml:"root"`
	} `yaml:"workspace"`

	Log struct {
		Path        string `yaml:"path"`
		Development bool   `yaml:"development"` // readable console encoding instead of JSON
	} `yaml:"log"`

	Apply struct {
		PreviewMode bool `yaml:"preview_mode"` // show the commit and confirm before writing
		Color       bool `yaml:"color"`        // colorize rendered diffs
	} `yaml:"apply"`
}

// Default returns the configuration used when no config file is given:
// workspace rooted at the current directory, logging disabled, color on.
func Default() *Config {
	cfg := &Config{}
	cfg.Apply.Color = true
	if cwd, err := os.Getwd(); err == nil {
		cfg.Workspace.Root = cwd
	}
	return cfg
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	// Convert workspace root to absolute path
	if cfg.Workspace.Root != "" {
		absRoot, err := filepath.Abs(cfg.Workspace.Root)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve workspace root: %w", err)
		}
		cfg.Workspace.Root = absRoot
	}

	return cfg, nil
}

// Validate checks that the loaded configuration is usable.
func (c *Config) Validate() error {
	if c.Workspace.Root == "" {
		return fmt.Errorf("workspace root is not set")
	}
	info, err := os.Stat(c.Workspace.Root)
	if err != nil {
		return fmt.Errorf("workspace root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("workspace root %q is not a directory", c.Workspace.Root)
	}
	return nil
}
