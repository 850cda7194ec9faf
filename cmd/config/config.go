package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	yaml "gopkg.in/yaml.v2"
)

// SupportedConfigFiles lists all supported config file names, searched in
// this order.
var SupportedConfigFiles = []string{
	"alpinesearch.yaml",
	"alpinesearch.yml",
	"alpinesearch.toml",
	"alpinesearch.json",
}

// LoadConfig loads the client config from the specified directory. When no
// config file exists there, the built-in defaults are returned.
func LoadConfig(configDir string) (*Config, error) {
	if configDir == "" {
		return nil, fmt.Errorf("config directory is required")
	}

	foundFile, err := FindConfigFile(configDir)
	if err != nil {
		return DefaultConfig(), nil
	}

	return LoadConfigFile(foundFile)
}

// LoadConfigFile loads a specific config file, layering it over the
// defaults so a partial file only overrides what it names.
func LoadConfigFile(configFile string) (*Config, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	fileExt := strings.ToLower(filepath.Ext(configFile))

	var cfg Config
	switch fileExt {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config file %s: %w", configFile, err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse TOML config file %s: %w", configFile, err)
		}
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config file %s: %w", configFile, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file extension: %s", fileExt)
	}

	return merged(&cfg), nil
}

// FindConfigFile searches for a supported config file in the specified
// directory.
func FindConfigFile(searchPath string) (string, error) {
	for _, name := range SupportedConfigFiles {
		candidate := filepath.Join(searchPath, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no config file found in %s", searchPath)
}

// merged fills unset fields from the defaults.
func merged(cfg *Config) *Config {
	def := DefaultConfig()
	if strings.TrimSpace(cfg.ServerURL) == "" {
		cfg.ServerURL = def.ServerURL
	}
	if len(cfg.Users) == 0 {
		cfg.Users = def.Users
	}
	if len(cfg.Models) == 0 {
		cfg.Models = def.Models
	}
	if cfg.StartDate == "" {
		cfg.StartDate = def.StartDate
	}
	if cfg.EndDate == "" {
		cfg.EndDate = def.EndDate
	}
	return cfg
}
