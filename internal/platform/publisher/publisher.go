// Package publisher delivers presence events to realtime subscribers.
// Every implementation is fire-and-forget: failures are logged and never returned.
package publisher

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// publishTimeout bounds a single delivery attempt.
const publishTimeout = 5 * time.Second

// Envelope is the wire format shared by all backends.
type Envelope struct {
	Channel     string    `json:"channel"`
	Event       string    `json:"event"`
	Payload     any       `json:"payload"`
	PublishedAt time.Time `json:"published_at"`
}

func encode(channel, event string, payload any, now time.Time) ([]byte, error) {
	return json.Marshal(Envelope{
		Channel:     channel,
		Event:       event,
		Payload:     payload,
		PublishedAt: now.UTC(),
	})
}

// LogPublisher only logs events. It is used when no realtime backend is configured.
type LogPublisher struct{}

// NewLogPublisher creates a LogPublisher.
func NewLogPublisher() *LogPublisher {
	return &LogPublisher{}
}

// Publish logs the event at info level.
func (LogPublisher) Publish(ctx context.Context, channel, event string, payload any) {
	slog.InfoContext(ctx, "presence event", "channel", channel, "event", event, "payload", payload)
}
