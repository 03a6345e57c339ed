package publisher

import (
	"context"
	"crypto/tls"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

// messageWriter is the part of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaConfig configures the Kafka backend. SASL/PLAIN over TLS is enabled when Username is set.
type KafkaConfig struct {
	Broker   string
	Topic    string
	Username string
	Password string
}

// KafkaPublisher writes events to a single topic keyed by channel,
// so events for one location stay ordered within a partition.
type KafkaPublisher struct {
	writer messageWriter
	now    func() time.Time
}

// NewKafkaPublisher creates a KafkaPublisher. Delivery is at-most-once:
// the writer does not wait for broker acks and never retries a failed write.
func NewKafkaPublisher(cfg KafkaConfig) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Broker),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireNone,
		MaxAttempts:  1,
		WriteTimeout: 10 * time.Second,
	}
	if cfg.Username != "" {
		w.Transport = &kafka.Transport{
			SASL: plain.Mechanism{Username: cfg.Username, Password: cfg.Password},
			TLS:  &tls.Config{},
		}
	}
	return &KafkaPublisher{writer: w, now: time.Now}
}

// Publish writes one message. Errors are logged.
func (p *KafkaPublisher) Publish(ctx context.Context, channel, event string, payload any) {
	now := p.now()
	data, err := encode(channel, event, payload, now)
	if err != nil {
		slog.Error("failed to encode presence event", "channel", channel, "event", event, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(channel),
		Value: data,
		Time:  now,
	}); err != nil {
		slog.Error("failed to publish presence event", "channel", channel, "event", event, "error", err)
	}
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
