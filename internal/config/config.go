package config

import (
	"fmt"
	"os"
)

const (
	ModePolling = "polling"
	ModeWebhook = "webhook"
)

// Config is the environment-backed bot configuration. Secrets are never read
// from files; .env loading in main only populates the process environment.
type Config struct {
	TelegramToken string
	PaymentToken  string // payment provider token; empty disables invoicing

	OpenAIKey     string
	OpenAIBaseURL string
	ImageAPIURL   string

	DatabaseURL string // postgres DSN; empty selects the SQLite fallback
	SQLitePath  string

	Mode       string // "polling" or "webhook"
	WebhookURL string
	Port       string
	AdminToken string // gates the usage endpoint; empty disables it
}

func Load() (*Config, error) {
	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		PaymentToken:  os.Getenv("PAYMENT_TOKEN"),
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		ImageAPIURL:   getEnv("IMAGE_API_URL", "https://image.pollinations.ai"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		SQLitePath:    getEnv("SQLITE_PATH", "users.db"),
		Mode:          getEnv("BOT_MODE", ModePolling),
		WebhookURL:    os.Getenv("WEBHOOK_URL"),
		Port:          getEnv("PORT", "5050"),
		AdminToken:    os.Getenv("ADMIN_TOKEN"),
	}

	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN environment variable is required")
	}
	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required")
	}
	if cfg.Mode != ModePolling && cfg.Mode != ModeWebhook {
		return nil, fmt.Errorf("BOT_MODE must be %q or %q, got %q", ModePolling, ModeWebhook, cfg.Mode)
	}
	if cfg.Mode == ModeWebhook && cfg.WebhookURL == "" {
		return nil, fmt.Errorf("WEBHOOK_URL is required when BOT_MODE=webhook")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
