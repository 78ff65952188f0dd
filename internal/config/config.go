package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	LLMEndpoint    string
	LLMAPIKey      string
	LLMModelName   string
	LLMMaxTokens   int
	LLMTimeout     time.Duration
	LLMTemperature *float64
	LLMAppTitle    string
	APIPort        string
	// AllowedOrigins lists origins allowed to call the API cross-origin.
	// Empty means same-origin only.
	AllowedOrigins []string
	LogLevel       slog.Level
	LogFormat      string
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory or a parent directory, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	_ = godotenv.Load()

	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ { // Limit search depth
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	cfg := &Config{
		LLMEndpoint:  getEnv("LLM_ENDPOINT", "https://openrouter.ai/api/v1/chat/completions"),
		LLMAPIKey:    getEnv("LLM_API_KEY", ""),
		LLMModelName: getEnv("LLM_MODEL", "gpt-4o-mini"),
		LLMAppTitle:  getEnv("LLM_APP_TITLE", ""),
		APIPort:      getEnv("API_PORT", "9000"),
		LogFormat:    strings.ToLower(getEnv("LOG_FORMAT", "text")),
	}

	if cfg.LLMAPIKey == "" {
		return nil, fmt.Errorf("LLM_API_KEY is required")
	}

	maxTokens, err := strconv.Atoi(getEnv("LLM_MAX_TOKENS", "300"))
	if err != nil {
		return nil, fmt.Errorf("LLM_MAX_TOKENS must be a valid integer: %w", err)
	}
	if maxTokens <= 0 {
		return nil, fmt.Errorf("LLM_MAX_TOKENS must be greater than 0")
	}
	cfg.LLMMaxTokens = maxTokens

	timeout, err := time.ParseDuration(getEnv("LLM_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("LLM_TIMEOUT must be a valid duration: %w", err)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("LLM_TIMEOUT must be greater than 0")
	}
	cfg.LLMTimeout = timeout

	if raw := getEnv("LLM_TEMPERATURE", ""); raw != "" {
		temperature, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("LLM_TEMPERATURE must be a valid number: %w", err)
		}
		if temperature < 0 || temperature > 2 {
			return nil, fmt.Errorf("LLM_TEMPERATURE must be between 0 and 2")
		}
		cfg.LLMTemperature = &temperature
	}

	cfg.AllowedOrigins = splitList(getEnv("CORS_ALLOWED_ORIGINS", ""))

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL is invalid: %w", err)
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be text or json")
	}

	return cfg, nil
}

// splitList splits a comma-separated value, dropping blank entries.
func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
