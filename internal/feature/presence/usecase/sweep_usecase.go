package usecase

import (
	"context"
	"log/slog"
	"time"

	"loyalty_backend/internal/feature/presence/domain/entity"
)

const (
	// DefaultGuestStaleAfter is how long a venue guest's flags survive without any write.
	DefaultGuestStaleAfter = 30 * time.Minute
	// DefaultPresenceStaleAfter is how long presence flags survive without an activity ping.
	DefaultPresenceStaleAfter = 5 * time.Minute
	// DefaultBatchSize bounds every read a sweep performs.
	DefaultBatchSize = 500
)

// GuestDirectory lists the owners targeted by the guest sweep.
type GuestDirectory interface {
	// ListVenueGuestIDs returns the ids of guests registered through the in-venue flow.
	ListVenueGuestIDs(ctx context.Context) ([]string, error)
}

// EventPublisher delivers presence events. Delivery is fire-and-forget:
// implementations log their own failures and never report them to the caller.
type EventPublisher interface {
	Publish(ctx context.Context, channel, event string, payload any)
}

// SweepConfig holds the staleness windows and batch size.
type SweepConfig struct {
	GuestStaleAfter    time.Duration
	PresenceStaleAfter time.Duration
	BatchSize          int
}

// SweepResult summarises one sweep run.
type SweepResult struct {
	Matched   int
	Cleared   int64
	Published int
	// Skipped counts cleared records whose owner could not be resolved.
	Skipped int
}

// SweepUsecase expires stale presence flags.
// Within one run the stale set is read, then cleared, then published, in that order.
// Runs keep no state between invocations and can be repeated after an interruption.
type SweepUsecase struct {
	repo      PresenceRepository
	guests    GuestDirectory
	publisher EventPublisher
	cfg       SweepConfig
}

// NewSweepUsecase creates a new SweepUsecase. Zero config values fall back to the defaults.
func NewSweepUsecase(repo PresenceRepository, guests GuestDirectory, publisher EventPublisher, cfg SweepConfig) *SweepUsecase {
	if cfg.GuestStaleAfter <= 0 {
		cfg.GuestStaleAfter = DefaultGuestStaleAfter
	}
	if cfg.PresenceStaleAfter <= 0 {
		cfg.PresenceStaleAfter = DefaultPresenceStaleAfter
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	return &SweepUsecase{repo: repo, guests: guests, publisher: publisher, cfg: cfg}
}

// SweepGuests clears the flags of venue guests whose record has not been written for GuestStaleAfter.
// Guests are not notified, so nothing is published.
func (s *SweepUsecase) SweepGuests(ctx context.Context, now time.Time) (SweepResult, error) {
	var total SweepResult

	ids, err := s.guests.ListVenueGuestIDs(ctx)
	if err != nil {
		return total, err
	}
	if len(ids) == 0 {
		return total, nil
	}

	cutoff := now.Add(-s.cfg.GuestStaleAfter)
	for start := 0; start < len(ids); start += s.cfg.BatchSize {
		end := min(start+s.cfg.BatchSize, len(ids))
		q := StaleQuery{
			Field:   StaleByUpdatedAt,
			Before:  cutoff,
			UserIDs: ids[start:end],
			Limit:   s.cfg.BatchSize,
		}
		res, err := s.drain(ctx, q, nil)
		total.Matched += res.Matched
		total.Cleared += res.Cleared
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// SweepPresence clears flags whose last activity is older than PresenceStaleAfter and publishes
// one event per cleared record on the location's admin channel.
// Records whose owner was deleted are cleared without an event.
func (s *SweepUsecase) SweepPresence(ctx context.Context, now time.Time) (SweepResult, error) {
	q := StaleQuery{
		Field:     StaleByLastActivity,
		Before:    now.Add(-s.cfg.PresenceStaleAfter),
		WithOwner: true,
		Limit:     s.cfg.BatchSize,
	}
	return s.drain(ctx, q, s.publish)
}

// drain repeatedly reads one batch of stale records and clears it until the store runs dry.
// Cleared records no longer match the query, so each pass makes progress.
func (s *SweepUsecase) drain(ctx context.Context, q StaleQuery, afterClear func(context.Context, []entity.PresenceRecord) (int, int)) (SweepResult, error) {
	var total SweepResult
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		records, err := s.repo.ListStale(ctx, q)
		if err != nil {
			return total, err
		}
		if len(records) == 0 {
			return total, nil
		}
		total.Matched += len(records)

		ids := make([]uint, 0, len(records))
		for i := range records {
			ids = append(ids, records[i].ID)
		}
		cleared, err := s.repo.ClearFlags(ctx, ids)
		if err != nil {
			return total, err
		}
		total.Cleared += cleared

		if afterClear != nil {
			published, skipped := afterClear(ctx, records)
			total.Published += published
			total.Skipped += skipped
		}

		if q.Limit <= 0 || len(records) < q.Limit || cleared == 0 {
			return total, nil
		}
	}
}

// publish emits one event per record. Publishing never fails the sweep.
func (s *SweepUsecase) publish(ctx context.Context, records []entity.PresenceRecord) (published, skipped int) {
	for _, r := range records {
		event, ok := entity.NewPresenceEvent(r)
		if !ok {
			slog.Warn("presence owner not found, event skipped", "user_id", r.UserID, "location_id", r.LocationID)
			skipped++
			continue
		}
		s.publisher.Publish(ctx, r.AdminChannel(), entity.EventUserPresence, event)
		published++
	}
	return published, skipped
}
