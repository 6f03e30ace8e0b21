package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
// It is loaded from ~/.config/finops-audit/config.yaml and must never be
// committed with real secrets.
type Config struct {
	LLM   LLMConfig   `yaml:"llm"   json:"llm"`
	AWS   AWSConfig   `yaml:"aws"   json:"aws"`
	Audit AuditDefaults `yaml:"audit" json:"audit"`
}

// LLMConfig configures the optional AI backend.
type LLMConfig struct {
	// Provider selects the AI backend: "anthropic", "openai", or "none".
	Provider string `yaml:"provider" json:"provider"`

	// APIKey is the secret key for the selected provider.
	// Never committed to version control.
	APIKey string `yaml:"api_key" json:"api_key"`

	// Model is the specific model identifier.
	Model string `yaml:"model" json:"model"`

	// MaxTokens caps the LLM response length.
	MaxTokens int `yaml:"max_tokens" json:"max_tokens"`
}

// AWSConfig holds AWS-specific defaults used when flags are not provided.
type AWSConfig struct {
	// DefaultRegion is used when no region flag or profile region is set.
	DefaultRegion string `yaml:"default_region" json:"default_region"`

	// DefaultProfile is used when no --profile flag is provided.
	DefaultProfile string `yaml:"default_profile" json:"default_profile"`
}

// AuditDefaults holds audit defaults applied when flags are not provided.
type AuditDefaults struct {
	// PolicyPath points to the audit policy YAML with threshold overrides.
	PolicyPath string `yaml:"policy_path" json:"policy_path"`

	// DaysBack is the default lookback window in days.
	DaysBack int `yaml:"days_back" json:"days_back"`
}

// Loader is the interface for reading Config from disk.
// Default implementation reads from ~/.config/finops-audit/config.yaml.
type Loader interface {
	// Load reads, parses, and validates the configuration file.
	Load() (*Config, error)

	// ConfigPath returns the absolute path to the configuration file.
	ConfigPath() string
}

// DefaultLoader reads the configuration file from the user's config
// directory. A missing file is not an error: Load returns a zero Config so
// the CLI works out of the box with flags alone.
type DefaultLoader struct {
	// Path overrides the default location when non-empty.
	Path string
}

func (l *DefaultLoader) ConfigPath() string {
	if l.Path != "" {
		return l.Path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "finops-audit", "config.yaml")
}

func (l *DefaultLoader) Load() (*Config, error) {
	path := l.ConfigPath()
	if path == "" {
		return &Config{}, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}
