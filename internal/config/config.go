package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr    string
	Env         string
	DatabaseURL string // empty selects the in-memory stores

	RedisAddr       string // empty selects the in-memory profile cache
	RedisPassword   string
	RedisDB         int
	ProfileCacheTTL time.Duration

	KafkaBrokers     []string // empty publishes audit events to the log only
	KafkaTopicPrefix string

	JWTSecret string

	TelegramToken  string
	TelegramChatID int64

	ReminderInterval   time.Duration
	PaymentMaxAttempts int
	Location           *time.Location
}

// Development reports whether APP_ENV asks for development logging.
func (c Config) Development() bool {
	return c.Env == "development"
}

// RemindersEnabled reports whether a Telegram chat is configured.
func (c Config) RemindersEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}

// Load reads .env (if present) and then the process environment.
// The returned bool reports whether a .env file was found.
func Load() (Config, bool, error) {
	foundEnv := godotenv.Load() == nil
	cfg, err := FromLookup(os.LookupEnv)
	return cfg, foundEnv, err
}

// FromLookup builds a Config from any environment lookup function.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}

	cfg := Config{
		HTTPAddr:         get("HTTP_ADDR", ":8080"),
		Env:              get("APP_ENV", "production"),
		DatabaseURL:      get("DATABASE_URL", ""),
		RedisAddr:        get("REDIS_ADDR", ""),
		RedisPassword:    get("REDIS_PASSWORD", ""),
		KafkaTopicPrefix: get("KAFKA_TOPIC_PREFIX", "subtrack"),
		JWTSecret:        get("AUTH_JWT_SECRET", ""),
		TelegramToken:    get("TELEGRAM_BOT_TOKEN", ""),
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("AUTH_JWT_SECRET is required")
	}

	for _, b := range strings.Split(get("KAFKA_BROKERS", ""), ",") {
		if b = strings.TrimSpace(b); b != "" {
			cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
		}
	}

	var err error
	if cfg.RedisDB, err = strconv.Atoi(get("REDIS_DB", "0")); err != nil {
		return Config{}, fmt.Errorf("REDIS_DB: %w", err)
	}
	if cfg.ProfileCacheTTL, err = positiveDuration("PROFILE_CACHE_TTL", get("PROFILE_CACHE_TTL", "5m")); err != nil {
		return Config{}, err
	}
	if cfg.ReminderInterval, err = positiveDuration("REMINDER_INTERVAL", get("REMINDER_INTERVAL", "1h")); err != nil {
		return Config{}, err
	}
	if cfg.PaymentMaxAttempts, err = strconv.Atoi(get("PAYMENT_MAX_ATTEMPTS", "5")); err != nil || cfg.PaymentMaxAttempts < 1 {
		return Config{}, fmt.Errorf("PAYMENT_MAX_ATTEMPTS must be a positive integer")
	}
	if chat := get("TELEGRAM_CHAT_ID", ""); chat != "" {
		if cfg.TelegramChatID, err = strconv.ParseInt(chat, 10, 64); err != nil {
			return Config{}, fmt.Errorf("TELEGRAM_CHAT_ID: %w", err)
		}
	}
	if cfg.Location, err = time.LoadLocation(get("TZ_NAME", "Asia/Manila")); err != nil {
		return Config{}, fmt.Errorf("TZ_NAME: %w", err)
	}
	return cfg, nil
}

func positiveDuration(key, raw string) (time.Duration, error) {
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}
