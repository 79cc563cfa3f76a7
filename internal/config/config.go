// Package config provides configuration for the chat service.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// ErrMissingSecret indicates a required secret is absent. Startup must not
// proceed partially: main halts with a user-visible message.
var ErrMissingSecret = errors.New("missing required configuration")

// Config holds the chat service configuration.
type Config struct {
	// Server settings
	HTTPPort int `toml:"http_port"`

	// Database
	DatabaseURL string `toml:"database_url"`

	// Model API settings
	LLMBaseURL string        `toml:"llm_base_url"`
	LLMAPIKey  string        `toml:"llm_api_key"`
	LLMModel   string        `toml:"llm_model"`
	LLMTimeout time.Duration `toml:"-"`

	// Retrieval settings
	RetrieveLimit    int `toml:"retrieve_limit"`
	ContextCharLimit int `toml:"context_char_limit"`
}

// Load builds configuration from an optional TOML file (CHAT_CONFIG_FILE)
// overlaid by environment variables. The model API key and the store
// connection string are required; either missing is a fatal startup
// condition.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPPort:         8080,
		LLMBaseURL:       "https://api.openai.com",
		LLMModel:         "gpt-4o-mini",
		RetrieveLimit:    5,
		ContextCharLimit: 2000,
	}

	if path := os.Getenv("CHAT_CONFIG_FILE"); path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	cfg.HTTPPort = getEnvInt("HTTP_PORT", cfg.HTTPPort)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.LLMBaseURL = getEnv("LLM_BASE_URL", cfg.LLMBaseURL)
	cfg.LLMAPIKey = getEnv("LLM_API_KEY", cfg.LLMAPIKey)
	cfg.LLMModel = getEnv("LLM_MODEL", cfg.LLMModel)
	cfg.LLMTimeout = time.Duration(getEnvInt("LLM_TIMEOUT_MS", 60000)) * time.Millisecond
	cfg.RetrieveLimit = getEnvInt("RETRIEVE_LIMIT", cfg.RetrieveLimit)
	cfg.ContextCharLimit = getEnvInt("CONTEXT_CHAR_LIMIT", cfg.ContextCharLimit)

	if cfg.LLMAPIKey == "" {
		return nil, fmt.Errorf("%w: LLM_API_KEY not set; please set it in your environment or config file", ErrMissingSecret)
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("%w: DATABASE_URL not set; please set it in your environment or config file", ErrMissingSecret)
	}
	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}
