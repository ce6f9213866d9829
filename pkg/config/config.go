// Package config loads and saves the rosterkit configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the rosterkit configuration.
type Config struct {
	// ProfilesPath overrides the per-OS profiles.dat resolution when set.
	ProfilesPath string `yaml:"profiles_path"`

	// WSE2 selects the WSE2 game data directory.
	WSE2 bool `yaml:"wse2"`

	// BackupDir holds on-disk roster backups made by the CLI.
	BackupDir string `yaml:"backup_dir"`

	// HeaderPath and TemplatePath point at raw header / character
	// template files used for generation. Empty means built-in defaults.
	HeaderPath   string `yaml:"header_path"`
	TemplatePath string `yaml:"template_path"`

	Server  Server  `yaml:"server"`
	Logging Logging `yaml:"logging"`
}

// Server configures the HTTP service.
type Server struct {
	Bind    string `yaml:"bind"`
	Port    int    `yaml:"port"`
	APIKey  string `yaml:"api_key"`
	DataDir string `yaml:"data_dir"`
}

// Logging configures log output.
type Logging struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the defaults used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		BackupDir: "./backups",
		Server: Server{
			Bind:    "127.0.0.1",
			Port:    8080,
			DataDir: "./data",
		},
		Logging: Logging{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from the specified path.
func LoadConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return config, nil
}

// SaveConfig writes the configuration to the specified path.
func SaveConfig(config *Config, configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DefaultConfigPath returns the per-user config location.
func DefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./rosterkit.yaml"
	}
	return filepath.Join(homeDir, ".config", "rosterkit", "config.yaml")
}

// ConfigExists checks if a configuration file exists.
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
