package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	OTel      OTelConfig
	Webhooks  WebhookConfig
	Campaigns CampaignConfig
	Leads     LeadConfig
	Persist   PersistConfig
	Env       string
	Port      string
}

type OTelConfig struct {
	Endpoint       string
	Headers        string
	ServiceName    string
	ServiceVersion string
}

type WebhookConfig struct {
	WhatsAppSecret  string
	TelephonySecret string
	MaxRetries      int
}

type CampaignConfig struct {
	// DefaultSLAMinutes applies when a campaign does not override the
	// first-contact SLA. PacingDays is the window a campaign is expected
	// to take to reach its joiner target; health status is judged against it.
	DefaultSLAMinutes int
	PacingDays        int
}

type LeadConfig struct {
	// WhatsAppNumber is the fallback business number for wa.me links when a
	// website lead is not attached to a campaign.
	WhatsAppNumber string
}

type PersistConfig struct {
	// DatabaseURL enables the Postgres snapshot store when set.
	DatabaseURL string
	MaxConns    int32
	MinConns    int32

	// RedisURL enables the webhook delivery mirror when set.
	RedisURL string
}

// Load loads configuration from environment variables. In development it also
// reads a local .env file.
func Load() (Config, error) {
	if getEnv("ENGINE_ENV", "development") == "development" {
		_ = godotenv.Load(".env")
	}

	cfg := Config{
		Env:  getEnv("ENGINE_ENV", "development"),
		Port: getEnv("PORT", "8080"),
		OTel: OTelConfig{
			Endpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:        getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""),
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "hireline-engine"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "dev"),
		},
		Webhooks: WebhookConfig{
			WhatsAppSecret:  getEnv("WHATSAPP_WEBHOOK_SECRET", ""),
			TelephonySecret: getEnv("TELEPHONY_WEBHOOK_SECRET", ""),
			MaxRetries:      getEnvInt("WEBHOOK_MAX_RETRIES", 3),
		},
		Campaigns: CampaignConfig{
			DefaultSLAMinutes: getEnvInt("DEFAULT_FIRST_CONTACT_SLA_MINUTES", 30),
			PacingDays:        getEnvInt("CAMPAIGN_PACING_DAYS", 30),
		},
		Leads: LeadConfig{
			WhatsAppNumber: getEnv("WEBSITE_WHATSAPP_NUMBER", "+919187351205"),
		},
		Persist: PersistConfig{
			DatabaseURL: getEnv("DATABASE_URL", ""),
			MaxConns:    getEnvInt32("DB_MAX_CONNS", 10),
			MinConns:    getEnvInt32("DB_MIN_CONNS", 2),
			RedisURL:    getEnv("REDIS_URL", ""),
		},
	}

	if cfg.Webhooks.MaxRetries < 1 {
		return Config{}, fmt.Errorf("WEBHOOK_MAX_RETRIES must be at least 1")
	}
	if cfg.Campaigns.DefaultSLAMinutes < 5 || cfg.Campaigns.DefaultSLAMinutes > 240 {
		return Config{}, fmt.Errorf("DEFAULT_FIRST_CONTACT_SLA_MINUTES must be in [5, 240]")
	}
	if cfg.Campaigns.PacingDays < 1 {
		return Config{}, fmt.Errorf("CAMPAIGN_PACING_DAYS must be at least 1")
	}

	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c OTelConfig) Enabled() bool {
	return c.Endpoint != ""
}

func (c PersistConfig) PostgresEnabled() bool {
	return c.DatabaseURL != ""
}

func (c PersistConfig) RedisEnabled() bool {
	return c.RedisURL != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvInt32(key string, fallback int32) int32 {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(i)
		}
	}
	return fallback
}
