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

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/store-mgmt/store-api/internal/app"
	"github.com/store-mgmt/store-api/internal/platform/cache"
	"github.com/store-mgmt/store-api/internal/platform/db"
	"github.com/store-mgmt/store-api/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	var infra app.Infra
	if cfg.StoreDriver == app.DriverPostgres {
		pool, err := db.New(ctx, cfg.DatabaseURL, cfg.PoolOptions())
		if err != nil {
			logger.Error("connect postgres", slog.Any("error", err))
			os.Exit(1)
		}
		defer pool.Close()
		infra.Pool = pool
	}

	if cfg.RedisAddr != "" {
		redisClient, err := cache.New(ctx, cfg.RedisOptions())
		if err != nil {
			logger.Warn("redis unavailable, using in-process cache", slog.Any("error", err))
		} else {
			defer func() {
				if err := redisClient.Close(); err != nil {
					logger.Warn("redis close", slog.Any("error", err))
				}
			}()
			infra.Redis = redisClient
			infra = withJobs(infra, cfg.QueueOptions(), logger)
		}
	}

	application, err := app.Build(cfg, logger, infra)
	if err != nil {
		logger.Error("build application", slog.Any("error", err))
		os.Exit(1)
	}

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      application.Router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("http server starting", slog.String("addr", cfg.AppAddr), slog.String("driver", cfg.StoreDriver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", slog.Any("error", err))
	}
	logger.Info("http server stopped")
}

// withJobs attaches the warmup client and queue inspector. Both share the
// process lifetime, so they are not closed explicitly.
func withJobs(infra app.Infra, opts asynq.RedisClientOpt, logger *slog.Logger) app.Infra {
	client, err := jobs.NewClient(opts)
	if err != nil {
		logger.Warn("jobs client", slog.Any("error", err))
		return infra
	}
	infra.Jobs = client
	infra.Inspector = asynq.NewInspector(opts)
	return infra
}
