// Package di provides dependency injection factories for creating application components.
package di

import (
	"log/slog"

	"github.com/redis/go-redis/v9"

	"loyalty_backend/internal/config"
	presenceusecase "loyalty_backend/internal/feature/presence/usecase"
	"loyalty_backend/internal/platform/publisher"
)

// NewPresencePublisher creates the EventPublisher selected by PRESENCE_PUBLISHER.
// The redis backend falls back to logging when Redis is unavailable.
// The returned close function releases the backend and is never nil.
func NewPresencePublisher(cfg config.Config, rdb *redis.Client) (presenceusecase.EventPublisher, func() error) {
	noop := func() error { return nil }

	switch cfg.Publisher {
	case config.PublisherKafka:
		p := publisher.NewKafkaPublisher(cfg.Kafka)
		slog.Info("presence publisher", "backend", "kafka", "topic", cfg.Kafka.Topic)
		return p, p.Close
	case config.PublisherRedis:
		if rdb != nil {
			slog.Info("presence publisher", "backend", "redis")
			return publisher.NewRedisPublisher(rdb), noop
		}
		slog.Warn("Redis unavailable, presence events will only be logged")
	}
	return publisher.NewLogPublisher(), noop
}
