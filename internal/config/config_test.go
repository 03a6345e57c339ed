package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENV", "prod")
	for _, key := range []string{
		"HTTP_ADDR", "CORS_ENABLED", "LOG_LEVEL", "JWT_EXPIRATION", "PRESENCE_PUBLISHER",
		"GUEST_STALE_AFTER", "GUEST_STALE_AFTER_SECONDS", "PRESENCE_STALE_AFTER", "PRESENCE_STALE_AFTER_SECONDS",
		"SWEEP_BATCH_SIZE", "REDIS_HOST", "REDIS_PORT",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.False(t, cfg.CORSEnabled)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiration)
	assert.Equal(t, PublisherRedis, cfg.Publisher)
	assert.Equal(t, 30*time.Minute, cfg.GuestStaleAfter)
	assert.Equal(t, 5*time.Minute, cfg.PresenceStaleAfter)
	assert.Equal(t, 500, cfg.SweepBatchSize)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENV", "prod")
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("CORS_ENABLED", "true")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("PRESENCE_PUBLISHER", "Kafka")
	t.Setenv("KAFKA_BROKER", "broker:9092")
	t.Setenv("GUEST_STALE_AFTER", "45m")
	t.Setenv("PRESENCE_STALE_AFTER", "")
	t.Setenv("PRESENCE_STALE_AFTER_SECONDS", "120")
	t.Setenv("SWEEP_BATCH_SIZE", "50")

	cfg := Load()

	assert.Equal(t, ":9000", cfg.HTTPAddr)
	assert.True(t, cfg.CORSEnabled)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, PublisherKafka, cfg.Publisher)
	assert.Equal(t, "broker:9092", cfg.Kafka.Broker)
	assert.Equal(t, 45*time.Minute, cfg.GuestStaleAfter)
	assert.Equal(t, 2*time.Minute, cfg.PresenceStaleAfter)
	assert.Equal(t, 50, cfg.SweepBatchSize)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("ENV", "prod")
	t.Setenv("CORS_ENABLED", "maybe")
	t.Setenv("LOG_LEVEL", "loud")
	t.Setenv("GUEST_STALE_AFTER", "soon")
	t.Setenv("GUEST_STALE_AFTER_SECONDS", "")
	t.Setenv("SWEEP_BATCH_SIZE", "many")

	cfg := Load()

	assert.False(t, cfg.CORSEnabled)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, 30*time.Minute, cfg.GuestStaleAfter)
	assert.Equal(t, 500, cfg.SweepBatchSize)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"valid redis", Config{JWTSecret: "s", Publisher: PublisherRedis}, ""},
		{"valid log", Config{JWTSecret: "s", Publisher: PublisherLog}, ""},
		{"missing secret", Config{Publisher: PublisherRedis}, "JWT_SECRET is required"},
		{"kafka without broker", Config{JWTSecret: "s", Publisher: PublisherKafka}, "KAFKA_BROKER is required"},
		{"unknown publisher", Config{JWTSecret: "s", Publisher: "pubnub"}, "PRESENCE_PUBLISHER must be one of"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
