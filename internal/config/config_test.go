package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}
}

func TestDefaults(t *testing.T) {
	cfg, err := FromLookup(env(map[string]string{"AUTH_JWT_SECRET": "s3cret"}))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "subtrack", cfg.KafkaTopicPrefix)
	assert.Equal(t, 5*time.Minute, cfg.ProfileCacheTTL)
	assert.Equal(t, time.Hour, cfg.ReminderInterval)
	assert.Equal(t, 5, cfg.PaymentMaxAttempts)
	assert.False(t, cfg.RemindersEnabled())
	assert.False(t, cfg.Development())
}

func TestOverrides(t *testing.T) {
	cfg, err := FromLookup(env(map[string]string{
		"AUTH_JWT_SECRET":      "s3cret",
		"APP_ENV":              "development",
		"KAFKA_BROKERS":        "kafka-1:9092, kafka-2:9092,",
		"REDIS_DB":             "2",
		"TELEGRAM_BOT_TOKEN":   "token",
		"TELEGRAM_CHAT_ID":     "-100123",
		"REMINDER_INTERVAL":    "15m",
		"PAYMENT_MAX_ATTEMPTS": "8",
		"TZ_NAME":              "UTC",
	}))
	require.NoError(t, err)

	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.EqualValues(t, -100123, cfg.TelegramChatID)
	assert.True(t, cfg.RemindersEnabled())
	assert.True(t, cfg.Development())
	assert.Equal(t, 15*time.Minute, cfg.ReminderInterval)
	assert.Equal(t, 8, cfg.PaymentMaxAttempts)
	assert.Equal(t, time.UTC, cfg.Location)
}

func TestInvalidValues(t *testing.T) {
	for key, value := range map[string]string{
		"AUTH_JWT_SECRET":      "",
		"REMINDER_INTERVAL":    "-1m",
		"PROFILE_CACHE_TTL":    "soon",
		"PAYMENT_MAX_ATTEMPTS": "0",
		"TELEGRAM_CHAT_ID":     "general",
		"TZ_NAME":              "Mars/Olympus",
	} {
		vars := map[string]string{"AUTH_JWT_SECRET": "s3cret"}
		vars[key] = value
		_, err := FromLookup(env(vars))
		assert.Error(t, err, key)
	}
}
