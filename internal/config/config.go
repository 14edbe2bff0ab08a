// Package config holds the terminal configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// TerminalConfig configures the execution engine and the UI. FontSize,
// Theme, and EnableViMode are opaque to the engine and passed through to
// the front-end.
type TerminalConfig struct {
	// Shell is the path to the shell binary that runs commands.
	Shell string `yaml:"shell"`
	// MaxHistory bounds the command history ring.
	MaxHistory int `yaml:"max_history"`
	// FontSize is the UI font size.
	FontSize float64 `yaml:"font_size"`
	// Theme names the UI colour theme.
	Theme string `yaml:"theme"`
	// EnableViMode turns on vi-style line editing in the UI.
	EnableViMode bool `yaml:"enable_vi_mode"`
}

// Default returns the platform default configuration.
func Default() *TerminalConfig {
	shell := "bash"
	if runtime.GOOS == "windows" {
		shell = "pwsh"
	}
	return &TerminalConfig{
		Shell:        shell,
		MaxHistory:   1000,
		FontSize:     14,
		Theme:        "dark",
		EnableViMode: false,
	}
}

// DefaultPath returns the conventional config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config directory: %w", err)
	}
	return filepath.Join(dir, "blockshell", "config.yaml"), nil
}

// Load reads the configuration at path, filling unset fields with
// defaults. A missing file yields the defaults.
func Load(path string) (*TerminalConfig, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Shell == "" {
		cfg.Shell = Default().Shell
	}
	if cfg.MaxHistory <= 0 {
		cfg.MaxHistory = Default().MaxHistory
	}
	return cfg, nil
}

// Save writes the configuration to path, creating parent directories.
func (c *TerminalConfig) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
