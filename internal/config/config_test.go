package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFileMissingUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.Ollama.BaseURL != "http://localhost:11434" {
		t.Errorf("default ollama base url = %q", cfg.Ollama.BaseURL)
	}
	if cfg.Ollama.Model != "gemma3:1b" {
		t.Errorf("default ollama model = %q", cfg.Ollama.Model)
	}
	if cfg.Jira.ResultLimit != 50 {
		t.Errorf("default result limit = %d", cfg.Jira.ResultLimit)
	}
	if cfg.Reports.DataDir != "data" {
		t.Errorf("default data dir = %q", cfg.Reports.DataDir)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "jira:\n  url: https://file.example.com\n  result_limit: 100\nollama:\n  model: file-model\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv(EnvJiraURL, "https://env.example.com")
	t.Setenv(EnvOllamaModel, "env-model")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.Jira.URL != "https://env.example.com" {
		t.Errorf("env should win over file, got %q", cfg.Jira.URL)
	}
	if cfg.Ollama.Model != "env-model" {
		t.Errorf("env should win over file, got %q", cfg.Ollama.Model)
	}
	if cfg.Jira.ResultLimit != 100 {
		t.Errorf("file value should survive, got %d", cfg.Jira.ResultLimit)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		token   string
		missing int
	}{
		{"both set", "https://jira.example.com", "secret", 0},
		{"missing token", "https://jira.example.com", "", 1},
		{"missing both", "", "", 2},
		{"whitespace only", " ", "\t", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Jira.URL = tt.url
			cfg.Jira.Token = tt.token

			if got := cfg.Validate(); len(got) != tt.missing {
				t.Errorf("Validate() = %v, want %d missing", got, tt.missing)
			}
		})
	}
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvJiraURL, EnvJiraAPIToken, EnvOllamaBaseURL, EnvOllamaModel} {
		t.Setenv(key, "")
	}
}
