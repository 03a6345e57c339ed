package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"loyalty_backend/internal/app/di"
	"loyalty_backend/internal/app/router"
	"loyalty_backend/internal/config"
	accounthandler "loyalty_backend/internal/feature/account/transport/handler"
	presencehandler "loyalty_backend/internal/feature/presence/transport/handler"
	platformdb "loyalty_backend/internal/platform/db"
	platformhandler "loyalty_backend/internal/platform/http/handler"
	platformredis "loyalty_backend/internal/platform/redis"
	"loyalty_backend/internal/platform/scheduler"
	"loyalty_backend/internal/shared/ratelimiter"
)

func main() {
	cfg := config.Load()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// DB 接続
	db, err := platformdb.OpenDB(cfg.DB, cfg.RunMigrations, di.Models()...)
	if err != nil {
		slog.Error("database unavailable", "error", err)
		os.Exit(1)
	}

	// Redis（任意）
	var rdb *redisv9.Client
	if tmp, err := platformredis.NewRedisClient(ctx, cfg.Redis); err != nil {
		slog.Warn("Redis unavailable. Running without rate limiting and realtime events.")
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	events, closeEvents := di.NewPresencePublisher(cfg, rdb)
	defer func() {
		if err := closeEvents(); err != nil {
			slog.Error("failed to close presence publisher", "error", err)
		}
	}()

	// ユースケース
	uc := di.NewUsecases(cfg, db, rdb, events)

	// バックグラウンドの掃除ジョブ
	jobs := scheduler.New()
	jobs.Every(ctx, di.JobGuestSweep, cfg.GuestSweepInterval, cfg.SweepTimeout, di.GuestSweepJob(uc.Sweeps))
	jobs.Every(ctx, di.JobPresenceSweep, cfg.PresenceSweepInterval, cfg.SweepTimeout, di.PresenceSweepJob(uc.Sweeps))

	// ルータ生成
	deps := router.Deps{
		Accounts:    accounthandler.NewAccountHandler(uc.Accounts),
		Presence:    presencehandler.NewPresenceHandler(uc.Presence),
		Sessions:    uc.Accounts,
		CORSEnabled: cfg.CORSEnabled,
		ReadyChecks: map[string]platformhandler.Check{
			"db": func(ctx context.Context) error {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				return sqlDB.PingContext(ctx)
			},
		},
	}
	if rdb != nil {
		deps.LoginLimiter = ratelimiter.NewRedisLimiter(rdb, "ratelimit", cfg.LoginRateLimit, cfg.LoginRateWindow)
		deps.ReadyChecks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("http server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown failed", "error", err)
	}
	jobs.Wait()
}
