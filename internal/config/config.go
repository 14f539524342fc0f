// Package config handles loading tick.toml configuration files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultServerURL is used when no config file or environment variable
// names a server.
const DefaultServerURL = "http://localhost:8000"

// DefaultTimeoutSeconds bounds every request to the server.
const DefaultTimeoutSeconds = 10

// Config represents the tick.toml configuration file.
type Config struct {
	Server   Server   `toml:"server"`
	Defaults Defaults `toml:"defaults"`
}

// Server contains connection-related configuration.
type Server struct {
	// URL is the base URL of the todo server.
	URL string `toml:"url"`

	// TimeoutSeconds bounds each request. Zero means the default.
	TimeoutSeconds int `toml:"timeout-seconds"`
}

// Defaults contains values applied to new todos when no flag names one.
type Defaults struct {
	Priority string `toml:"priority"`
	Category string `toml:"category"`
}

// Load loads configuration from the working directory and the global
// config file. Project values win over global ones, and the
// TICK_SERVER_URL environment variable wins over both. Returns defaults
// if no config files exist.
func Load(dir string) (*Config, error) {
	globalPath, err := globalConfigPath()
	if err != nil {
		return nil, err
	}

	globalCfg, globalMeta, err := loadConfigFile(globalPath)
	if err != nil {
		return nil, err
	}

	projectCfg, projectMeta, err := loadConfigFile(filepath.Join(dir, "tick.toml"))
	if err != nil {
		return nil, err
	}

	merged := mergeConfigs(globalCfg, projectCfg, globalMeta, projectMeta)

	if env := strings.TrimSpace(os.Getenv("TICK_SERVER_URL")); env != "" {
		merged.Server.URL = env
	}
	if merged.Server.URL == "" {
		merged.Server.URL = DefaultServerURL
	}
	if merged.Server.TimeoutSeconds <= 0 {
		merged.Server.TimeoutSeconds = DefaultTimeoutSeconds
	}

	return merged, nil
}

func globalConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "tick", "config.toml"), nil
}

func loadConfigFile(path string) (*Config, toml.MetaData, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, toml.MetaData{}, nil
	}
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("parse config file %s: %w", path, err)
	}

	return &cfg, meta, nil
}

func mergeConfigs(globalCfg, projectCfg *Config, globalMeta, projectMeta toml.MetaData) *Config {
	if globalCfg == nil {
		globalCfg = &Config{}
	}
	if projectCfg == nil {
		projectCfg = &Config{}
	}

	merged := Config{}
	merged.Server.URL = mergeString(projectMeta.IsDefined("server", "url"), projectCfg.Server.URL, globalCfg.Server.URL)
	merged.Defaults.Priority = mergeString(projectMeta.IsDefined("defaults", "priority"), projectCfg.Defaults.Priority, globalCfg.Defaults.Priority)
	merged.Defaults.Category = mergeString(projectMeta.IsDefined("defaults", "category"), projectCfg.Defaults.Category, globalCfg.Defaults.Category)
	if projectMeta.IsDefined("server", "timeout-seconds") {
		merged.Server.TimeoutSeconds = projectCfg.Server.TimeoutSeconds
	} else if globalMeta.IsDefined("server", "timeout-seconds") {
		merged.Server.TimeoutSeconds = globalCfg.Server.TimeoutSeconds
	}

	return &merged
}

func mergeString(projectDefined bool, projectValue, globalValue string) string {
	value := globalValue
	if projectDefined {
		value = projectValue
	}
	return strings.TrimSpace(value)
}
