package di

import (
	"context"
	"log/slog"
	"time"

	presenceusecase "loyalty_backend/internal/feature/presence/usecase"
	"loyalty_backend/internal/platform/metrics"
	"loyalty_backend/internal/platform/scheduler"
)

// Sweep job names, also used as metric labels.
const (
	JobGuestSweep    = "guest_presence_sweep"
	JobPresenceSweep = "presence_sweep"
)

// Sweeper is the part of the sweep usecase the jobs run.
type Sweeper interface {
	SweepGuests(ctx context.Context, now time.Time) (presenceusecase.SweepResult, error)
	SweepPresence(ctx context.Context, now time.Time) (presenceusecase.SweepResult, error)
}

// GuestSweepJob wraps SweepGuests with logging and metrics.
func GuestSweepJob(s Sweeper) scheduler.Job {
	return observed(JobGuestSweep, s.SweepGuests)
}

// PresenceSweepJob wraps SweepPresence with logging and metrics.
func PresenceSweepJob(s Sweeper) scheduler.Job {
	return observed(JobPresenceSweep, s.SweepPresence)
}

func observed(name string, run func(ctx context.Context, now time.Time) (presenceusecase.SweepResult, error)) scheduler.Job {
	return func(ctx context.Context, now time.Time) error {
		start := time.Now()
		res, err := run(ctx, now)
		metrics.ObserveSweep(name, metrics.SweepCounts{
			Matched:   res.Matched,
			Cleared:   res.Cleared,
			Published: res.Published,
			Skipped:   res.Skipped,
		}, time.Since(start), err)
		if err != nil {
			return err
		}
		if res.Cleared > 0 {
			slog.Info("sweep cleared presence flags",
				"job", name, "matched", res.Matched, "cleared", res.Cleared,
				"published", res.Published, "skipped", res.Skipped)
		}
		return nil
	}
}
