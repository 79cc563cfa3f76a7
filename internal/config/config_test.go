package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CHAT_CONFIG_FILE", "HTTP_PORT", "DATABASE_URL",
		"LLM_BASE_URL", "LLM_API_KEY", "LLM_MODEL", "LLM_TIMEOUT_MS",
		"RETRIEVE_LIMIT", "CONTEXT_CHAR_LIMIT",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadMissingSecretsIsFatal(t *testing.T) {
	clearEnv(t)

	_, err := Load()
	if !errors.Is(err, ErrMissingSecret) {
		t.Fatalf("expected ErrMissingSecret, got %v", err)
	}

	t.Setenv("LLM_API_KEY", "k1")
	_, err = Load()
	if !errors.Is(err, ErrMissingSecret) {
		t.Fatalf("expected ErrMissingSecret without DATABASE_URL, got %v", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_API_KEY", "k1")
	t.Setenv("DATABASE_URL", "file:chat.db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.HTTPPort != 8080 {
		t.Fatalf("unexpected port: %d", cfg.HTTPPort)
	}
	if cfg.RetrieveLimit != 5 || cfg.ContextCharLimit != 2000 {
		t.Fatalf("unexpected retrieval settings: %+v", cfg)
	}
	if cfg.LLMTimeout <= 0 {
		t.Fatalf("expected bounded model timeout, got %v", cfg.LLMTimeout)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_API_KEY", "k1")
	t.Setenv("DATABASE_URL", "file:chat.db")
	t.Setenv("HTTP_PORT", "9999")
	t.Setenv("RETRIEVE_LIMIT", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.HTTPPort != 9999 || cfg.RetrieveLimit != 3 {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
}

func TestLoadConfigFileOverlaidByEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
http_port = 7000
database_url = "file:from-file.db"
llm_api_key = "file-key"
llm_model = "file-model"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Setenv("CHAT_CONFIG_FILE", path)
	t.Setenv("LLM_MODEL", "env-model")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.HTTPPort != 7000 || cfg.DatabaseURL != "file:from-file.db" || cfg.LLMAPIKey != "file-key" {
		t.Fatalf("config file values not applied: %+v", cfg)
	}
	// Environment wins over the file.
	if cfg.LLMModel != "env-model" {
		t.Fatalf("env did not override file: %q", cfg.LLMModel)
	}
}
