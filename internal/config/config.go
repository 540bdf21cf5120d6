// Package config handles jirareport configuration loading and validation.
//
// Configuration is assembled once at startup: defaults, then an optional
// YAML file, then environment variables. The resulting struct is passed to
// every component; nothing else reads the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables recognized at startup.
const (
	EnvJiraURL       = "JIRA_URL"
	EnvJiraAPIToken  = "JIRA_API_TOKEN"
	EnvOllamaBaseURL = "OLLAMA_BASE_URL"
	EnvOllamaModel   = "OLLAMA_MODEL"
)

// Config is the root configuration for jirareport.
type Config struct {
	Jira    JiraConfig    `yaml:"jira"`
	Ollama  OllamaConfig  `yaml:"ollama"`
	Reports ReportsConfig `yaml:"reports"`
	Log     LogConfig     `yaml:"log"`
}

// JiraConfig defines the tracker connection.
type JiraConfig struct {
	URL   string `yaml:"url"`
	Token string `yaml:"token"`
	// ResultLimit caps a single search. The tracker query has no
	// pagination; raise this for large backlogs.
	ResultLimit int `yaml:"result_limit"`
}

// OllamaConfig defines the optional local model endpoint.
type OllamaConfig struct {
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// ReportsConfig defines where reports and the preference cache live.
type ReportsConfig struct {
	DataDir string `yaml:"data_dir"`
	// SampleSize bounds the raw tickets embedded in the analysis prompt.
	SampleSize int `yaml:"sample_size"`
}

// LogConfig defines diagnostics output.
type LogConfig struct {
	Level     string `yaml:"level"`
	SentryDSN string `yaml:"sentry_dsn"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Jira: JiraConfig{
			ResultLimit: 50,
		},
		Ollama: OllamaConfig{
			BaseURL: "http://localhost:11434",
			Model:   "gemma3:1b",
		},
		Reports: ReportsConfig{
			DataDir:    "data",
			SampleSize: 20,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the default path (or uses defaults when the
// file is absent) and applies environment overrides.
func Load() (*Config, error) {
	return LoadFile(DefaultConfigPath())
}

// LoadFile reads configuration from the given path and applies environment
// overrides. A missing file is not an error; defaults are used.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	cfg.applyEnv()
	return cfg, nil
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	if p := os.Getenv("JIRAREPORT_CONFIG"); p != "" {
		return p
	}
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config/jirareport/config.yaml")
}

// applyEnv overlays environment variables onto the config. Environment
// always wins over the file.
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvJiraURL); v != "" {
		c.Jira.URL = v
	}
	if v := os.Getenv(EnvJiraAPIToken); v != "" {
		c.Jira.Token = v
	}
	if v := os.Getenv(EnvOllamaBaseURL); v != "" {
		c.Ollama.BaseURL = v
	}
	if v := os.Getenv(EnvOllamaModel); v != "" {
		c.Ollama.Model = v
	}
	c.Log.SentryDSN = os.ExpandEnv(c.Log.SentryDSN)
}

// Validate reports the required settings that are missing. An empty slice
// means the config is usable.
func (c *Config) Validate() []string {
	var missing []string
	if strings.TrimSpace(c.Jira.URL) == "" {
		missing = append(missing, EnvJiraURL)
	}
	if strings.TrimSpace(c.Jira.Token) == "" {
		missing = append(missing, EnvJiraAPIToken)
	}
	return missing
}
