// Package config loads process configuration from the environment and an optional .env file.
package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	platformdb "loyalty_backend/internal/platform/db"
	"loyalty_backend/internal/platform/publisher"
	platformredis "loyalty_backend/internal/platform/redis"
)

// Publisher backends.
const (
	PublisherRedis = "redis"
	PublisherKafka = "kafka"
	PublisherLog   = "log"
)

// Config is the full process configuration.
type Config struct {
	HTTPAddr    string
	CORSEnabled bool
	LogLevel    slog.Level

	DB            platformdb.Config
	RunMigrations bool

	JWTSecret     string
	JWTExpiration time.Duration

	Redis platformredis.Config

	Publisher string
	Kafka     publisher.KafkaConfig

	GuestSweepInterval    time.Duration
	GuestStaleAfter       time.Duration
	PresenceSweepInterval time.Duration
	PresenceStaleAfter    time.Duration
	SweepTimeout          time.Duration
	SweepBatchSize        int
	GuestCacheTTL         time.Duration

	LoginRateLimit  int
	LoginRateWindow time.Duration
}

// Load reads .env (outside production) and then the environment.
// Variables already set in the environment take precedence over .env.
func Load() Config {
	if os.Getenv("ENV") != "prod" {
		if err := godotenv.Load(); err != nil {
			slog.Info(".env not loaded", "error", err)
		}
	}

	return Config{
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),
		CORSEnabled: getenvBool("CORS_ENABLED", false),
		LogLevel:    getenvLevel("LOG_LEVEL", slog.LevelInfo),

		DB:            platformdb.LoadConfigFromEnv(),
		RunMigrations: getenvBool("RUN_MIGRATIONS", false),

		JWTSecret:     os.Getenv("JWT_SECRET"),
		JWTExpiration: getenvDuration("JWT_EXPIRATION", 24*time.Hour),

		Redis: platformredis.Config{
			Host:     getenv("REDIS_HOST", "localhost"),
			Port:     getenv("REDIS_PORT", "6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},

		Publisher: strings.ToLower(getenv("PRESENCE_PUBLISHER", PublisherRedis)),
		Kafka: publisher.KafkaConfig{
			Broker:   os.Getenv("KAFKA_BROKER"),
			Topic:    getenv("KAFKA_TOPIC", "presence-events"),
			Username: os.Getenv("KAFKA_USERNAME"),
			Password: os.Getenv("KAFKA_PASSWORD"),
		},

		GuestSweepInterval:    getenvDuration("GUEST_SWEEP_INTERVAL", time.Minute),
		GuestStaleAfter:       getenvDuration("GUEST_STALE_AFTER", 30*time.Minute),
		PresenceSweepInterval: getenvDuration("PRESENCE_SWEEP_INTERVAL", time.Minute),
		PresenceStaleAfter:    getenvDuration("PRESENCE_STALE_AFTER", 5*time.Minute),
		SweepTimeout:          getenvDuration("SWEEP_TIMEOUT", 30*time.Second),
		SweepBatchSize:        getenvInt("SWEEP_BATCH_SIZE", 500),
		GuestCacheTTL:         getenvDuration("GUEST_CACHE_TTL", time.Minute),

		LoginRateLimit:  getenvInt("LOGIN_RATE_LIMIT", 10),
		LoginRateWindow: getenvDuration("LOGIN_RATE_WINDOW", time.Minute),
	}
}

// Validate reports settings that make the server unable to start.
func (c Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	switch c.Publisher {
	case PublisherRedis, PublisherLog:
	case PublisherKafka:
		if c.Kafka.Broker == "" {
			errs = append(errs, errors.New("KAFKA_BROKER is required when PRESENCE_PUBLISHER=kafka"))
		}
	default:
		errs = append(errs, errors.New("PRESENCE_PUBLISHER must be one of redis, kafka, log"))
	}
	return errors.Join(errs...)
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	if val := os.Getenv(key + "_SECONDS"); val != "" {
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getenvLevel(key string, fallback slog.Level) slog.Level {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(val)); err != nil {
		return fallback
	}
	return level
}
