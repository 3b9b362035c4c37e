package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Port            string        `validate:"required,numeric"`
	UpstreamURL     string        `validate:"required,url"`
	UpstreamTimeout time.Duration `validate:"gt=0"`
	RefreshInterval time.Duration `validate:"gt=0"`
	RefreshMinGap   time.Duration `validate:"gte=0"`
	RevenueRule     string        `validate:"oneof=delivered_paid confirmed_paid paid all"`
	OrderLimit      int           `validate:"min=1,max=10000"`
	RecentLimit     int           `validate:"min=1,max=10000"`
	RecentShown     int           `validate:"min=0"`
	DisplayLocale   string        `validate:"required,bcp47_language_tag"`
	CurrencySuffix  string
	Timezone        string `validate:"required"`
	LogLevel        string `validate:"oneof=debug info warn error"`
}

// Load reads .env (when present) and the process environment. Missing keys
// take their defaults; the result is validated before it is returned.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv is Load without the .env file.
func FromEnv() (Config, error) {
	cfg := Config{
		Port:            getEnvOrDefault("PORT", "8080"),
		UpstreamURL:     strings.TrimRight(getEnvOrDefault("UPSTREAM_URL", "http://localhost:5000"), "/"),
		UpstreamTimeout: getDurationEnv("UPSTREAM_TIMEOUT", 10*time.Second),
		RefreshInterval: getDurationEnv("REFRESH_INTERVAL", time.Minute),
		RefreshMinGap:   getDurationEnv("REFRESH_MIN_GAP", 5*time.Second),
		RevenueRule:     getEnvOrDefault("REVENUE_RULE", "delivered_paid"),
		OrderLimit:      getIntEnv("ORDER_LIMIT", 1000),
		RecentLimit:     getIntEnv("RECENT_LIMIT", 200),
		RecentShown:     getIntEnv("RECENT_SHOWN", 8),
		DisplayLocale:   getEnvOrDefault("DISPLAY_LOCALE", "uz"),
		CurrencySuffix:  getRawEnvOrDefault("CURRENCY_SUFFIX", " so'm"),
		Timezone:        getEnvOrDefault("TIMEZONE", "Local"),
		LogLevel:        strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info")),
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	if _, err := cfg.Location(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Location is the viewer's time zone used for calendar-day bucketing.
func (c Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

func (c Config) Addr() string {
	return ":" + c.Port
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// getRawEnvOrDefault keeps surrounding whitespace, which is significant for
// the currency suffix.
func getRawEnvOrDefault(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}
