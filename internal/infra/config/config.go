package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the reminder service.
type AppConfig struct {
	DatabaseURL      string
	ReminderCronSpec string        // daily trigger, cron syntax
	ReminderCooldown time.Duration // minimum gap between reminders per ticket
	SendDelay        time.Duration // pause between consecutive sends
	SendTimeout      time.Duration // upper bound for one delivery attempt
	NotifierKind     string        // log | noop | fail | webhook | telegram
	WebhookURL       string
	WebhookToken     string
	TelegramToken    string
	HTTPListenAddr   string
	EmailFromName    string
	EmailReplyTo     string
	LogLevel         string
	Environment      string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.ReminderCronSpec = os.Getenv("REMINDER_CRON_SPEC")
	if cfg.ReminderCronSpec == "" {
		cfg.ReminderCronSpec = "0 10 * * *" // Default: 10:00 daily, local time
	}

	cfg.ReminderCooldown, err = durationEnv("REMINDER_COOLDOWN", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	cfg.SendDelay, err = durationEnv("SEND_DELAY", 2*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.SendTimeout, err = durationEnv("SEND_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	cfg.NotifierKind = strings.ToLower(os.Getenv("NOTIFIER_KIND"))
	if cfg.NotifierKind == "" {
		cfg.NotifierKind = "log"
	}
	cfg.WebhookURL = os.Getenv("NOTIFIER_WEBHOOK_URL")
	cfg.WebhookToken = os.Getenv("NOTIFIER_WEBHOOK_TOKEN")
	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")

	cfg.HTTPListenAddr = os.Getenv("HTTP_LISTEN_ADDR")
	if cfg.HTTPListenAddr == "" {
		cfg.HTTPListenAddr = ":8080"
	}

	cfg.EmailFromName = os.Getenv("EMAIL_FROM_NAME")
	if cfg.EmailFromName == "" {
		cfg.EmailFromName = "Equipe de Suporte TI"
	}
	cfg.EmailReplyTo = os.Getenv("EMAIL_REPLY_TO")

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	return cfg, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return d, nil
}
