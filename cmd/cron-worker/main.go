package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/temankemah/temankemah-backend/internal/cron"
	"github.com/temankemah/temankemah-backend/internal/images"
	"github.com/temankemah/temankemah-backend/internal/regions"
	"github.com/temankemah/temankemah-backend/pkg/cdn"
	"github.com/temankemah/temankemah-backend/pkg/config"
	"github.com/temankemah/temankemah-backend/pkg/db"
	"github.com/temankemah/temankemah-backend/pkg/logger"
	"github.com/temankemah/temankemah-backend/pkg/metrics"
	"github.com/temankemah/temankemah-backend/pkg/migrate"
	"github.com/temankemah/temankemah-backend/pkg/redis"
)

const lockKeyFormat = "tk:cron-worker:lock:%s"

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "cron-worker"

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
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

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	cdnClient, err := cdn.New(cfg.CDN)
	if err != nil {
		logg.Error(context.Background(), "failed to create cdn client", err)
		os.Exit(1)
	}

	metricsCollector := metrics.NewCronJobMetrics(prometheus.DefaultRegisterer)
	lock, err := cron.NewRedisLock(redisClient, lockKey(cfg.App.Env), 0)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	regionPurge, err := cron.NewRegionPurgeJob(cron.RegionPurgeJobParams{
		Logger:        logg,
		Regions:       regions.NewRepository(dbClient.DB()),
		RetentionDays: cfg.Cron.RegionRetentionDays,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create region purge job", err)
		os.Exit(1)
	}

	orphanSweep, err := cron.NewOrphanSweepJob(cron.OrphanSweepJobParams{
		Logger:    logg,
		Orphans:   images.NewOrphanRepository(dbClient.DB()),
		CDN:       cdnClient,
		BatchSize: cfg.Cron.OrphanSweepBatchSize,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create orphan sweep job", err)
		os.Exit(1)
	}

	registry := cron.NewRegistry()
	registry.Register(regionPurge)
	registry.Register(orphanSweep)

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Metrics:  metricsCollector,
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, env)
}
