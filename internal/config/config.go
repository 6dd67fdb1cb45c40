// Package config loads p4report defaults from a TOML file and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Config holds defaults that command-line flags may override.
type Config struct {
	Port           string `toml:"port"`
	User           string `toml:"user"`
	Workspace      string `toml:"workspace"`
	OllamaURL      string `toml:"ollama_url"`
	OllamaModel    string `toml:"ollama_model"`
	PromptFile     string `toml:"prompt_file"`
	TimeoutMinutes int    `toml:"timeout_minutes"`
}

// DefaultPath returns the standard config file location, or "" when the user
// config directory cannot be determined.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "p4report", "config.toml")
}

// Load reads the config file at path, layered over environment defaults. A
// missing file at the default location is not an error; an explicitly
// requested file must exist.
func Load(path string, required bool) (*Config, error) {
	cfg := &Config{}
	cfg.applyEnv()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// applyEnv fills Perforce settings from the conventional environment
// variables, loading a .env file first when one is present.
func (c *Config) applyEnv() {
	_ = godotenv.Load()

	c.Port = os.Getenv("P4PORT")
	c.User = os.Getenv("P4USER")
	c.Workspace = os.Getenv("P4CLIENT")
}
