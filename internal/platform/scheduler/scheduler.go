// Package scheduler runs periodic background jobs.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const (
	defaultInterval = time.Minute
	defaultTimeout  = 10 * time.Second
)

// Job is one run of a periodic task. The context carries the per-run timeout.
type Job func(ctx context.Context, now time.Time) error

// Scheduler starts jobs on tickers and waits for them on shutdown.
type Scheduler struct {
	wg  sync.WaitGroup
	now func() time.Time
}

// New creates a Scheduler.
func New() *Scheduler {
	return &Scheduler{now: time.Now}
}

// Every runs job every interval until ctx is cancelled. Each run gets its own timeout context.
// A failing run is logged and the next tick runs normally. Runs of one job never overlap.
func (s *Scheduler) Every(ctx context.Context, name string, interval, timeout time.Duration, job Job) {
	if interval <= 0 {
		interval = defaultInterval
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	ticker := time.NewTicker(interval)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer ticker.Stop()
		slog.Info("job started", "job", name, "interval", interval)
		for {
			select {
			case <-ctx.Done():
				slog.Info("job stopped", "job", name)
				return
			case <-ticker.C:
				s.RunOnce(ctx, name, timeout, job)
			}
		}
	}()
}

// RunOnce runs job a single time with a timeout and returns its error after logging it.
func (s *Scheduler) RunOnce(ctx context.Context, name string, timeout time.Duration, job Job) error {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := job(runCtx, s.now().UTC()); err != nil {
		slog.Error("job failed", "job", name, "error", err)
		return err
	}
	return nil
}

// Wait blocks until every started job has stopped.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}
