package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sipeslibya/storefront-backend/internal/dashboard"
	"github.com/sipeslibya/storefront-backend/internal/notify"
	"github.com/sipeslibya/storefront-backend/internal/settings"
	"github.com/sipeslibya/storefront-backend/pkg/config"
	"github.com/sipeslibya/storefront-backend/pkg/db"
	"github.com/sipeslibya/storefront-backend/pkg/logger"
	"github.com/sipeslibya/storefront-backend/pkg/metrics"
	"github.com/sipeslibya/storefront-backend/pkg/redis"
	"github.com/sipeslibya/storefront-backend/pkg/telegram"
)

// The report fires once per day at this hour, server-local time.
const reportHour = 20

const (
	lowStockThreshold = 10
	lockKeyFormat     = "sipes:report-worker:lock:%s"
	lockTTL           = 6 * time.Hour
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "report-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "report-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	telegramClient, err := telegram.NewClient(cfg.Telegram, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create telegram client", err)
		os.Exit(1)
	}

	storefrontMetrics := metrics.NewStorefrontMetrics(prometheus.DefaultRegisterer)

	conn := dbClient.DB()
	notifyService, err := notify.NewService(telegramClient, settings.NewRepository(conn), cfg.Telegram, storefrontMetrics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create notify service", err)
		os.Exit(1)
	}

	dashboardService, err := dashboard.NewService(dashboard.NewRepository(conn), lowStockThreshold)
	if err != nil {
		logg.Error(context.Background(), "failed to create dashboard service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithField(ctx, "env", cfg.App.Env)
	logg.Info(ctx, "starting report worker")

	runLoop(ctx, logg, redisClient, dashboardService, notifyService, cfg.App.Env)

	logg.Info(ctx, "report worker shutting down gracefully")
}

func runLoop(
	ctx context.Context,
	logg *logger.Logger,
	locks *redis.Client,
	stats dashboard.Service,
	notifier notify.Service,
	env string,
) {
	for {
		next := nextRunAt(time.Now())
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		// One replica claims the day's broadcast; the rest skip.
		key := fmt.Sprintf(lockKeyFormat, lockName(env, next))
		acquired, err := locks.SetNX(ctx, key, "1", lockTTL)
		if err != nil {
			logg.Error(ctx, "report lock acquisition failed", err)
			continue
		}
		if !acquired {
			logg.Info(logg.WithField(ctx, "lock_key", key), "daily report already claimed")
			continue
		}

		report, err := stats.ReportStats(ctx)
		if err != nil {
			logg.Error(ctx, "failed to gather daily report stats", err)
			continue
		}
		if sent := notifier.DailyReport(ctx, report); !sent {
			logg.Warn(ctx, "daily report broadcast did not go out")
			continue
		}
		logg.Info(ctx, "daily report sent")
	}
}

func nextRunAt(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), reportHour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func lockName(env string, at time.Time) string {
	if env == "" {
		env = "local"
	}
	return env + ":" + at.Format("2006-01-02")
}
