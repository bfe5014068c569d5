package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/store-mgmt/store-api/internal/categories"
	jobmetrics "github.com/store-mgmt/store-api/internal/jobs"
	"github.com/store-mgmt/store-api/internal/shared"
)

// CategoriesWarmupJob reloads a categories listing through the service so
// the cache entry for the current version is populated.
type CategoriesWarmupJob struct {
	Categories *categories.Service
	Logger     *slog.Logger
	Metrics    *jobmetrics.Metrics
}

// NewCategoriesWarmupJob wires dependencies for the warmup handler.
func NewCategoriesWarmupJob(svc *categories.Service, logger *slog.Logger, metrics *jobmetrics.Metrics) *CategoriesWarmupJob {
	return &CategoriesWarmupJob{Categories: svc, Logger: logger, Metrics: metrics}
}

// Handle processes TaskCategoriesWarmup tasks.
func (j *CategoriesWarmupJob) Handle(ctx context.Context, t *asynq.Task) (resultErr error) {
	if j == nil || j.Categories == nil {
		return errors.New("categories warmup: handler not configured")
	}
	var payload CategoriesWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("categories warmup: decode payload: %v: %w", err, asynq.SkipRetry)
	}

	tracker := j.Metrics.Track(TaskCategoriesWarmup)
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(
		slog.String("search", payload.Search),
		slog.Int("offset", payload.Offset),
		slog.Int("limit", payload.Limit))

	ctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	start := time.Now()
	page, err := j.Categories.List(ctx, payload.Query())
	if err != nil {
		if errors.Is(err, shared.ErrValidation) {
			logger.Warn("discarding invalid warmup", slog.Any("error", err))
			return fmt.Errorf("categories warmup: %v: %w", err, asynq.SkipRetry)
		}
		logger.Error("warm categories listing", slog.Any("error", err))
		return err
	}
	logger.Info("warmed categories listing", slog.Int("total", page.Total), slog.Duration("duration", time.Since(start)))
	return nil
}

func (j *CategoriesWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskCategoriesWarmup))
	}
	return slog.Default().With(slog.String("job", TaskCategoriesWarmup))
}
