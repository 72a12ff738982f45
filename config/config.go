// Package config loads the preset-selector settings from YAML with
// environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config is the complete preset-selector configuration.
type Config struct {
	// PresetDir is searched first for preset and wildcard files.
	PresetDir string `yaml:"preset_dir"`
	// WildcardDir is a shared wildcard directory searched after PresetDir.
	// Optional.
	WildcardDir string `yaml:"wildcard_dir"`

	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig configures the HTTP service.
type ServerConfig struct {
	Port string `yaml:"port"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		PresetDir: "presets",
		Server: ServerConfig{
			Port: "8080",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads path over the defaults, then applies environment overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if dir := os.Getenv("PRESET_DIR"); dir != "" {
		c.PresetDir = dir
	}
	if dir := os.Getenv("WILDCARD_DIR"); dir != "" {
		c.WildcardDir = dir
	}
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Port = port
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// SearchPaths lists the preset directories in lookup order.
func (c *Config) SearchPaths() []string {
	paths := []string{c.PresetDir}
	if c.WildcardDir != "" {
		paths = append(paths, c.WildcardDir)
	}
	return paths
}

// Addr is the listen address of the HTTP service.
func (c *Config) Addr() string {
	return ":" + c.Server.Port
}

// GetLogLevel parses the configured level, falling back to info.
func (c *Config) GetLogLevel() zapcore.Level {
	level, err := zapcore.ParseLevel(c.Logging.Level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}
