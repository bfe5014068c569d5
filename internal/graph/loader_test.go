package graph

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/store-mgmt/store-api/internal/categories"
	"github.com/store-mgmt/store-api/internal/shared"
)

type countingRepo struct {
	*categories.MemoryRepository
	batches atomic.Int32
}

func (c *countingRepo) FindByIDs(ctx context.Context, ids []string) ([]categories.Category, error) {
	c.batches.Add(1)
	return c.MemoryRepository.FindByIDs(ctx, ids)
}

func TestCategoryLoaderMemoises(t *testing.T) {
	repo := &countingRepo{MemoryRepository: categories.NewMemoryRepository()}
	svc := categories.NewService(repo, nil, nil)
	ctx := context.Background()
	a, err := svc.Create(ctx, "A", "")
	require.NoError(t, err)
	b, err := svc.Create(ctx, "B", "")
	require.NoError(t, err)
	missing := uuid.NewString()

	loader := NewCategoryLoader(svc)
	got, err := loader.LoadMany(ctx, []string{a.ID, missing, b.ID})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "A", got[0].Name)
	assert.Nil(t, got[1])
	assert.Equal(t, "B", got[2].Name)
	assert.Equal(t, int32(1), repo.batches.Load())

	one, err := loader.Load(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", one.Name)
	none, err := loader.Load(ctx, missing)
	require.NoError(t, err)
	assert.Nil(t, none)
	assert.Equal(t, int32(1), repo.batches.Load(), "memoised ids are not refetched")

	loader.Clear(a.ID)
	_, err = loader.Load(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(2), repo.batches.Load())

	_, err = loader.LoadMany(ctx, []string{a.ID, "bad"})
	assert.ErrorIs(t, err, shared.ErrInvalidID)
}

func TestFromContextDefaultsToAnonymous(t *testing.T) {
	rc := FromContext(context.Background())
	assert.Nil(t, rc.Identity)
	assert.Nil(t, rc.Err)
}
