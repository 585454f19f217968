package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// GlobalConfig represents configuration stored in ~/.config/regulon/config.yml.
type GlobalConfig struct {
	APIURL      string `yaml:"api_url,omitempty"`
	APIKey      string `yaml:"api_key,omitempty"`
	HistoryPath string `yaml:"history_path,omitempty"`
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "regulon"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
	// HistoryFile is the default run history database name.
	HistoryFile = "history.db"

	// DefaultAPIURL is the interactome service started by the launch scripts.
	DefaultAPIURL = "http://127.0.0.1:8000"

	// Environment overrides.
	EnvAPIURL = "REGULON_API_URL"
	EnvAPIKey = "REGULON_API_KEY"
)

// globalConfigCache caches the loaded global config.
var globalConfigCache *GlobalConfig

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/regulon/config.yml.
func GlobalConfigPath() string {
	dir := globalConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, GlobalConfigFile)
}

func globalConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir)
}

// LoadGlobalConfig loads the global configuration file.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadGlobalConfig() (*GlobalConfig, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	path := GlobalConfigPath()
	if path == "" {
		return &GlobalConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &GlobalConfig{}, nil
		}
		return nil, fmt.Errorf("reading global config: %w", err)
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing global config: %w", err)
	}

	if cfg.HistoryPath != "" {
		cfg.HistoryPath = ExpandTilde(cfg.HistoryPath)
	}

	globalConfigCache = &cfg
	return &cfg, nil
}

// ResetGlobalConfigCache clears the cached global config.
// Useful for testing.
func ResetGlobalConfigCache() {
	globalConfigCache = nil
}

// GetAPIURL returns the interactome base URL: environment, then global
// config, then DefaultAPIURL.
func GetAPIURL() string {
	if v := os.Getenv(EnvAPIURL); v != "" {
		return v
	}
	if cfg, err := LoadGlobalConfig(); err == nil && cfg.APIURL != "" {
		return cfg.APIURL
	}
	return DefaultAPIURL
}

// GetAPIKey returns the interactome API key from the environment or global config.
func GetAPIKey() string {
	if v := os.Getenv(EnvAPIKey); v != "" {
		return v
	}
	if cfg, err := LoadGlobalConfig(); err == nil {
		return cfg.APIKey
	}
	return ""
}

// HistoryPath returns the run history database path.
func HistoryPath() string {
	if cfg, err := LoadGlobalConfig(); err == nil && cfg.HistoryPath != "" {
		return cfg.HistoryPath
	}
	dir := globalConfigDir()
	if dir == "" {
		return HistoryFile
	}
	return filepath.Join(dir, HistoryFile)
}
