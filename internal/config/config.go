package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"lipikar/internal/domain"
)

// Config stores runtime configuration for the backend.
type Config struct {
	Engine  EngineConfig
	Session SessionConfig
	Notify  NotifyConfig
	Log     LogConfig
}

type EngineConfig struct {
	EndpointURL string
	APIKey      string
}

type SessionConfig struct {
	DefaultLanguage domain.Language
	SettleDelay     time.Duration
}

type NotifyConfig struct {
	Enabled bool
}

type LogConfig struct {
	Level string
}

// Load resolves configuration from environment variables and defaults.
func Load() (Config, error) {
	cfg := Config{
		Engine: EngineConfig{
			EndpointURL: strings.TrimSpace(os.Getenv("LIPIKAR_ENGINE_URL")),
			APIKey:      strings.TrimSpace(os.Getenv("LIPIKAR_API_KEY")),
		},
		Session: SessionConfig{
			DefaultLanguage: domain.Language(envOrDefault("LIPIKAR_LANGUAGE", string(domain.LanguageHinglish))),
			SettleDelay:     time.Duration(envOrDefaultInt("LIPIKAR_SETTLE_DELAY_MS", 300)) * time.Millisecond,
		},
		Notify: NotifyConfig{
			Enabled: envOrDefaultBool("LIPIKAR_NOTIFICATIONS", true),
		},
		Log: LogConfig{
			Level: envOrDefault("LOG_LEVEL", "info"),
		},
	}

	if !cfg.Session.DefaultLanguage.Valid() {
		cfg.Session.DefaultLanguage = domain.LanguageHinglish
	}
	if cfg.Session.SettleDelay <= 0 {
		cfg.Session.SettleDelay = 300 * time.Millisecond
	}

	return cfg, nil
}

func envOrDefault(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envOrDefaultInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDefaultBool(key string, fallback bool) bool {
	value := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	switch value {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}
