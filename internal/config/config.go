// Package config loads service configuration from an optional .env file and
// environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"

	"github.com/winnyineza/RindwaApp-sub000/internal/types"
)

// Config is the full notifyd configuration.
type Config struct {
	HTTPAddr  string
	LogLevel  string
	LogFormat string

	// Dispatch
	Workers     int
	SendTimeout time.Duration
	RatePush    float64
	RateEmail   float64
	RateSMS     float64

	// Retention
	Retention       time.Duration
	SweepInterval   time.Duration
	DefaultTimezone string

	// Ledger; empty RedisAddr keeps records in memory
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Providers; empty credentials select simulation mode
	PushEndpoint  string
	PushServerKey string
	EmailEndpoint string
	EmailAPIKey   string
	EmailFrom     string
	SMSEndpoint   string
	SMSAccountSID string
	SMSAuthToken  string
	SMSFrom       string
}

// Load reads .env files if present and then the environment.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables with defaults.
func FromEnv() (*Config, error) {
	cfg := &Config{
		HTTPAddr:  envOr("RINDWA_HTTP_ADDR", ":8080"),
		LogLevel:  envOr("RINDWA_LOG_LEVEL", "info"),
		LogFormat: envOr("RINDWA_LOG_FORMAT", "json"),

		Workers:     envInt("RINDWA_WORKERS", 16),
		SendTimeout: envDuration("RINDWA_SEND_TIMEOUT", 10*time.Second),
		RatePush:    envFloat("RINDWA_RATE_PUSH", 0),
		RateEmail:   envFloat("RINDWA_RATE_EMAIL", 0),
		RateSMS:     envFloat("RINDWA_RATE_SMS", 0),

		Retention:       envDuration("RINDWA_RETENTION", 7*24*time.Hour),
		SweepInterval:   envDuration("RINDWA_SWEEP_INTERVAL", time.Hour),
		DefaultTimezone: envOr("RINDWA_DEFAULT_TIMEZONE", types.DefaultTimezone),

		RedisAddr:     envOr("RINDWA_REDIS_ADDR", ""),
		RedisPassword: envOr("RINDWA_REDIS_PASSWORD", ""),
		RedisDB:       envInt("RINDWA_REDIS_DB", 0),

		PushEndpoint:  envOr("RINDWA_PUSH_ENDPOINT", ""),
		PushServerKey: envOr("RINDWA_PUSH_SERVER_KEY", ""),
		EmailEndpoint: envOr("RINDWA_EMAIL_ENDPOINT", ""),
		EmailAPIKey:   envOr("RINDWA_EMAIL_API_KEY", ""),
		EmailFrom:     envOr("RINDWA_EMAIL_FROM", ""),
		SMSEndpoint:   envOr("RINDWA_SMS_ENDPOINT", ""),
		SMSAccountSID: envOr("RINDWA_SMS_ACCOUNT_SID", ""),
		SMSAuthToken:  envOr("RINDWA_SMS_AUTH_TOKEN", ""),
		SMSFrom:       envOr("RINDWA_SMS_FROM", ""),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the service cannot run with.
func (c *Config) Validate() error {
	if c.Workers <= 0 {
		return fmt.Errorf("RINDWA_WORKERS must be positive, got %d", c.Workers)
	}
	if c.SendTimeout <= 0 {
		return fmt.Errorf("RINDWA_SEND_TIMEOUT must be positive, got %s", c.SendTimeout)
	}
	if c.Retention <= 0 {
		return fmt.Errorf("RINDWA_RETENTION must be positive, got %s", c.Retention)
	}
	if c.RatePush < 0 || c.RateEmail < 0 || c.RateSMS < 0 {
		return fmt.Errorf("channel rate limits must not be negative")
	}
	if _, err := time.LoadLocation(c.DefaultTimezone); err != nil {
		return fmt.Errorf("RINDWA_DEFAULT_TIMEZONE: %w", err)
	}
	return nil
}

// Rates returns the per-channel send rates keyed by channel.
func (c *Config) Rates() map[types.Channel]float64 {
	return map[types.Channel]float64{
		types.ChannelPush:  c.RatePush,
		types.ChannelEmail: c.RateEmail,
		types.ChannelSMS:   c.RateSMS,
	}
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
