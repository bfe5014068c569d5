package categories

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/store-mgmt/store-api/internal/platform/cache"
	"github.com/store-mgmt/store-api/internal/shared"
)

type recordingWarmup struct {
	mu      sync.Mutex
	queries []ListQuery
}

func (r *recordingWarmup) EnqueueCategoriesWarmup(_ context.Context, q ListQuery) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries = append(r.queries, q)
	return nil
}

func newRedisService(t *testing.T) (*Service, *MemoryRepository) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	repo := NewMemoryRepository()
	return NewService(repo, cache.NewRedis(client, "categories", time.Minute), nil), repo
}

func TestServiceListIsCachedUntilMutation(t *testing.T) {
	svc, repo := newRedisService(t)
	ctx := context.Background()
	_, err := svc.Create(ctx, "Bakery", "")
	require.NoError(t, err)

	page, err := svc.List(ctx, ListQuery{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)

	// Writes behind the service's back are not visible until a bump.
	_, err = repo.Create(ctx, "Dairy", "")
	require.NoError(t, err)
	page, err = svc.List(ctx, ListQuery{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)

	_, err = svc.Create(ctx, "Fruit", "")
	require.NoError(t, err)
	page, err = svc.List(ctx, ListQuery{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, []string{"Bakery", "Dairy", "Fruit"}, names(page.Items))
}

func TestServiceWithMemoryCache(t *testing.T) {
	svc := NewService(NewMemoryRepository(), cache.NewMemory("categories", time.Minute), nil)
	ctx := context.Background()
	created, err := svc.Create(ctx, "Tools", "hardware")
	require.NoError(t, err)

	page, err := svc.List(ctx, ListQuery{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)

	require.NoError(t, svc.Delete(ctx, created.ID))
	page, err = svc.List(ctx, ListQuery{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestServiceValidation(t *testing.T) {
	svc := NewService(NewMemoryRepository(), nil, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, "   ", "")
	assert.ErrorIs(t, err, shared.ErrValidation)
	_, err = svc.List(ctx, ListQuery{Offset: -1})
	assert.ErrorIs(t, err, shared.ErrValidation)
	_, err = svc.List(ctx, ListQuery{Limit: -5})
	assert.ErrorIs(t, err, shared.ErrValidation)
	_, err = svc.List(ctx, ListQuery{Search: "a(", Limit: 1})
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Get(ctx, "bad-id")
	assert.ErrorIs(t, err, shared.ErrInvalidID)
	_, err = svc.Get(ctx, uuid.NewString())
	assert.ErrorIs(t, err, shared.ErrNotFound)

	blank := " "
	_, err = svc.Update(ctx, uuid.NewString(), Patch{Name: &blank})
	assert.ErrorIs(t, err, shared.ErrValidation)
	note := "x"
	_, err = svc.Update(ctx, uuid.NewString(), Patch{Note: &note})
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, uuid.NewString()), shared.ErrNotFound)
}

func TestServiceEnqueuesWarmupOnMutation(t *testing.T) {
	warm := &recordingWarmup{}
	svc := NewService(NewMemoryRepository(), nil, nil).WithWarmup(warm)
	ctx := context.Background()

	c, err := svc.Create(ctx, "Garden", "")
	require.NoError(t, err)
	name := "Garden & Patio"
	_, err = svc.Update(ctx, c.ID, Patch{Name: &name})
	require.NoError(t, err)

	assert.Equal(t, []ListQuery{{}, {Limit: DefaultPageSize}, {}, {Limit: DefaultPageSize}}, warm.queries)

	_, err = svc.List(ctx, ListQuery{})
	require.NoError(t, err)
	assert.Len(t, warm.queries, 4, "reads never enqueue")
}
