package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds the application configuration, sourced from environment
// variables (a .env file, if present, is loaded by main before this runs).
type Config struct {
	// Telegram
	TelegramBotToken string
	TelegramAPIBase  string
	PublicBaseURL    string

	// Chat-completion API
	ModelAPIURL string
	ModelAPIKey string
	ModelName   string

	// Memory
	MaxHistory int
	// SummarizationThreshold is read for forward compatibility with a
	// summarizer; no current code path consults it.
	SummarizationThreshold int

	// Server
	Port     int
	LogLevel string
}

// Load reads configuration from environment variables.
func Load() Config {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	return Config{
		TelegramBotToken:       token,
		TelegramAPIBase:        fmt.Sprintf("https://api.telegram.org/bot%s", token),
		PublicBaseURL:          strings.TrimRight(os.Getenv("PUBLIC_BASE_URL"), "/"),
		ModelAPIURL:            envOrDefault("MODEL_API_URL", "https://api.together.xyz/v1/chat/completions"),
		ModelAPIKey:            os.Getenv("MODEL_API_KEY"),
		ModelName:              envOrDefault("MODEL_NAME", "mistralai/Mistral-7B-Instruct-v0.1"),
		MaxHistory:             envIntOrDefault("MAX_HISTORY", 8),
		SummarizationThreshold: envIntOrDefault("SUMMARIZATION_THRESHOLD", 10),
		Port:                   envIntOrDefault("PORT", 8080),
		LogLevel:               envOrDefault("LOG_LEVEL", "info"),
	}
}

// Validate checks that the required configuration is present.
func (c Config) Validate() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("missing required environment variable: TELEGRAM_BOT_TOKEN")
	}
	if c.PublicBaseURL == "" {
		return fmt.Errorf("missing required environment variable: PUBLIC_BASE_URL")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	if c.MaxHistory < 1 {
		return fmt.Errorf("MAX_HISTORY must be positive, got %d", c.MaxHistory)
	}
	return nil
}

// WebhookURL is the publicly reachable address registered with Telegram.
func (c Config) WebhookURL() string {
	return c.PublicBaseURL + "/webhook"
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOrDefault(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
