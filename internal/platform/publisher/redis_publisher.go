package publisher

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher fans events out with Redis PUBLISH on the event's channel.
type RedisPublisher struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisPublisher creates a RedisPublisher on an existing client.
func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client, now: time.Now}
}

// Publish sends the encoded envelope to channel. Errors are logged.
func (p *RedisPublisher) Publish(ctx context.Context, channel, event string, payload any) {
	data, err := encode(channel, event, payload, p.now())
	if err != nil {
		slog.Error("failed to encode presence event", "channel", channel, "event", event, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	receivers, err := p.client.Publish(ctx, channel, data).Result()
	if err != nil {
		slog.Error("failed to publish presence event", "channel", channel, "event", event, "error", err)
		return
	}
	slog.Debug("presence event published", "channel", channel, "event", event, "receivers", receivers)
}
