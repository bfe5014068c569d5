package categories

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/store-mgmt/store-api/internal/platform/cache"
	"github.com/store-mgmt/store-api/internal/shared"
)

// DefaultPageSize is the window warmed after every mutation.
const DefaultPageSize = 10

// WarmupEnqueuer schedules background repopulation of listing cache
// entries.
type WarmupEnqueuer interface {
	EnqueueCategoriesWarmup(ctx context.Context, q ListQuery) error
}

// Service holds category business rules and the listing cache.
type Service struct {
	repo   Repository
	cache  cache.Versioned
	warmup WarmupEnqueuer
	logger *slog.Logger
}

// NewService constructs a Service. cache may be nil to disable caching.
func NewService(repo Repository, c cache.Versioned, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, cache: c, logger: logger}
}

// WithWarmup enables warmup task scheduling after mutations.
func (s *Service) WithWarmup(w WarmupEnqueuer) *Service {
	s.warmup = w
	return s
}

// Get returns the category with id.
func (s *Service) Get(ctx context.Context, id string) (*Category, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, shared.ErrNotFound
	}
	return c, nil
}

// GetMany returns the categories among ids that exist.
func (s *Service) GetMany(ctx context.Context, ids []string) ([]Category, error) {
	return s.repo.FindByIDs(ctx, ids)
}

// List returns a listing window, served from the cache when possible.
func (s *Service) List(ctx context.Context, q ListQuery) (Page, error) {
	if err := validateQuery(q); err != nil {
		return Page{}, err
	}
	if s.cache == nil {
		return s.repo.List(ctx, q)
	}
	key, err := s.cache.BuildKey(ctx, q.CacheParts()...)
	if err != nil {
		s.logger.Warn("categories cache unavailable", slog.Any("error", err))
		return s.repo.List(ctx, q)
	}
	var page Page
	err = s.cache.FetchJSON(ctx, key, &page, func(ctx context.Context) (any, error) {
		return s.repo.List(ctx, q)
	})
	if err != nil {
		return Page{}, err
	}
	return page, nil
}

// Create stores a new category.
func (s *Service) Create(ctx context.Context, name, note string) (*Category, error) {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return nil, err
	}
	c, err := s.repo.Create(ctx, name, note)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return c, nil
}

// Update applies patch to the category with id.
func (s *Service) Update(ctx context.Context, id string, patch Patch) (*Category, error) {
	if patch.Name != nil {
		trimmed := strings.TrimSpace(*patch.Name)
		if err := validateName(trimmed); err != nil {
			return nil, err
		}
		patch.Name = &trimmed
	}
	c, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, shared.ErrNotFound
	}
	s.invalidate(ctx)
	return c, nil
}

// Delete removes the category with id.
func (s *Service) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("%w: category %s", shared.ErrNotFound, id)
	}
	s.invalidate(ctx)
	return nil
}

// invalidate drops cached listings and schedules warmups. Failures are
// logged; the mutation already succeeded.
func (s *Service) invalidate(ctx context.Context) {
	if s.cache != nil {
		if err := s.cache.Bump(ctx); err != nil {
			s.logger.Error("bump categories cache", slog.Any("error", err))
		}
	}
	if s.warmup == nil {
		return
	}
	for _, q := range []ListQuery{{}, {Limit: DefaultPageSize}} {
		if err := s.warmup.EnqueueCategoriesWarmup(ctx, q); err != nil {
			s.logger.Warn("enqueue categories warmup", slog.Any("error", err))
		}
	}
}
