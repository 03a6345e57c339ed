// Command sweep runs the guest and presence sweeps once and exits.
// It is meant for an external cron when the server's in-process scheduler is not used.
package main

import (
	"context"
	"log/slog"
	"os"

	redisv9 "github.com/redis/go-redis/v9"

	"loyalty_backend/internal/app/di"
	"loyalty_backend/internal/config"
	platformdb "loyalty_backend/internal/platform/db"
	platformredis "loyalty_backend/internal/platform/redis"
	"loyalty_backend/internal/platform/scheduler"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.Load()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	ctx := context.Background()

	db, err := platformdb.OpenDB(cfg.DB, cfg.RunMigrations, di.Models()...)
	if err != nil {
		slog.Error("database unavailable", "error", err)
		return 1
	}

	var rdb *redisv9.Client
	if cfg.Publisher == config.PublisherRedis {
		if tmp, err := platformredis.NewRedisClient(ctx, cfg.Redis); err == nil {
			rdb = tmp
			defer rdb.Close()
		}
	}

	events, closeEvents := di.NewPresencePublisher(cfg, rdb)
	defer closeEvents()

	uc := di.NewUsecases(cfg, db, rdb, events)
	jobs := scheduler.New()

	failed := false
	if err := jobs.RunOnce(ctx, di.JobGuestSweep, cfg.SweepTimeout, di.GuestSweepJob(uc.Sweeps)); err != nil {
		failed = true
	}
	// The guest sweep failing does not stop the presence sweep.
	if err := jobs.RunOnce(ctx, di.JobPresenceSweep, cfg.SweepTimeout, di.PresenceSweepJob(uc.Sweeps)); err != nil {
		failed = true
	}

	if failed {
		slog.Error("sweep finished with errors")
		return 1
	}
	slog.Info("sweep ok")
	return 0
}
