// Package config handles application configuration.
//
// Go Pattern: Configuration via environment variables with sensible defaults.
// In Go, we typically use structs to hold configuration, and a function to
// load values from environment variables. Go keeps it explicit.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BotAlchemist/psy-tutor/internal/services/llm"
)

// Default model per provider, used when LLM_MODEL is unset.
var defaultModels = map[llm.Provider]string{
	llm.ProviderOpenAI: "gpt-4o-mini",
	llm.ProviderGemini: "gemini-2.5-flash",
}

// Config holds all application configuration.
type Config struct {
	// Server settings
	Port    string
	GinMode string // "debug", "release", or "test"

	// Folder holding the chapter PDFs
	BookDir string

	// LLM settings. A missing key is allowed: asks then answer with a
	// "no API key" message instead of failing.
	LLMProvider   llm.Provider
	LLMModel      string
	OpenAIAPIKey  string
	OpenAIBaseURL string // Optional: OpenRouter or any OpenAI-compatible gateway
	GoogleAPIKey  string
	GeminiBaseURL string // Optional: Gemini API proxy or test server

	// Optional Postgres for the durable page cache
	DatabaseURL string

	// Rate limiting
	AskRateLimit int // Asks per hour per client

	// CORS
	AllowedOrigins []string
}

// Load reads configuration from environment variables with sensible defaults.
//
// Go Pattern: Functions that can fail return (value, error). The caller
// MUST handle the error.
func Load() (*Config, error) {
	cfg := &Config{
		// Server defaults
		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "debug"),

		BookDir: getEnv("BOOK_DIR", "psychology_book"),

		LLMProvider:   llm.Provider(strings.ToLower(getEnv("LLM_PROVIDER", string(llm.ProviderOpenAI)))),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		GoogleAPIKey:  getEnv("GOOGLE_API_KEY", ""),
		GeminiBaseURL: getEnv("GEMINI_BASE_URL", ""),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		AskRateLimit: getEnvInt("ASK_RATE_LIMIT", 60),

		AllowedOrigins: []string{
			getEnv("CORS_ORIGIN", "http://localhost:5173"),
		},
	}

	defaultModel, ok := defaultModels[cfg.LLMProvider]
	if !ok {
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q; use openai or gemini", cfg.LLMProvider)
	}
	cfg.LLMModel = getEnv("LLM_MODEL", defaultModel)

	if cfg.BookDir == "" {
		return nil, fmt.Errorf("BOOK_DIR must not be empty")
	}
	if cfg.AskRateLimit <= 0 {
		cfg.AskRateLimit = 60
	}

	return cfg, nil
}

// Credential returns the API key for the configured provider.
func (c *Config) Credential() string {
	if c.LLMProvider == llm.ProviderGemini {
		return c.GoogleAPIKey
	}
	return c.OpenAIAPIKey
}

// LLM returns the invoker configuration.
func (c *Config) LLM() llm.Config {
	baseURL := c.OpenAIBaseURL
	if c.LLMProvider == llm.ProviderGemini {
		baseURL = c.GeminiBaseURL
	}
	return llm.Config{
		Provider: c.LLMProvider,
		APIKey:   c.Credential(),
		BaseURL:  baseURL,
		Model:    c.LLMModel,
	}
}

// getEnv reads an environment variable with a fallback default.
// Go Pattern: Small helper functions are idiomatic. Go favors simple,
// composable functions over complex frameworks.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// getEnvInt reads an integer environment variable with a fallback.
func getEnvInt(key string, fallback int) int {
	str := getEnv(key, "")
	if str == "" {
		return fallback
	}
	val, err := strconv.Atoi(str)
	if err != nil {
		return fallback
	}
	return val
}
