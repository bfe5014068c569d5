package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/store-mgmt/store-api/internal/app"
	"github.com/store-mgmt/store-api/internal/categories"
	jobmetrics "github.com/store-mgmt/store-api/internal/jobs"
	"github.com/store-mgmt/store-api/internal/platform/cache"
	"github.com/store-mgmt/store-api/internal/platform/db"
	"github.com/store-mgmt/store-api/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Default().Warn("load .env", slog.Any("error", err))
	}

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	if cfg.RedisAddr == "" {
		logger.Error("worker requires REDIS_ADDR")
		os.Exit(1)
	}

	var infra app.Infra
	if cfg.StoreDriver == app.DriverPostgres {
		pool, err := db.New(ctx, cfg.DatabaseURL, cfg.PoolOptions())
		if err != nil {
			logger.Error("connect database", slog.Any("error", err))
			os.Exit(1)
		}
		defer pool.Close()
		infra.Pool = pool
	}

	redisClient, err := cache.New(ctx, cfg.RedisOptions())
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()
	infra.Redis = redisClient

	// Warmups never enqueue further warmups, so infra.Jobs stays nil here.
	categoriesService, err := app.NewCategoriesService(cfg, logger, infra)
	if err != nil {
		logger.Error("init categories", slog.Any("error", err))
		os.Exit(1)
	}

	metrics := jobmetrics.NewMetrics(nil)
	warmupJob := jobs.NewCategoriesWarmupJob(categoriesService, logger, metrics)

	fullListTask, err := jobs.NewCategoriesWarmupTask(categories.ListQuery{})
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}
	firstPageTask, err := jobs.NewCategoriesWarmupTask(categories.ListQuery{Limit: categories.DefaultPageSize})
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: cfg.QueueOptions(),
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskCategoriesWarmup, Handler: warmupJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "@every 10m", Task: fullListTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "@every 10m", Task: firstPageTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
