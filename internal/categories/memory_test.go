package categories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/store-mgmt/store-api/internal/shared"
)

func seed(t *testing.T, repo Repository, names ...string) []*Category {
	t.Helper()
	out := make([]*Category, 0, len(names))
	for _, name := range names {
		c, err := repo.Create(context.Background(), name, "note "+name)
		require.NoError(t, err)
		out = append(out, c)
	}
	return out
}

func names(items []Category) []string {
	out := make([]string, 0, len(items))
	for _, c := range items {
		out = append(out, c.Name)
	}
	return out
}

func TestMemoryListAllWhenQueryEmpty(t *testing.T) {
	repo := NewMemoryRepository()
	seed(t, repo, "Fruit", "Bakery", "Dairy")

	page, err := repo.List(context.Background(), ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 0, page.Offset)
	assert.Equal(t, 0, page.Limit)
	assert.Equal(t, []string{"Bakery", "Dairy", "Fruit"}, names(page.Items))
}

func TestMemoryListWindowAndSearch(t *testing.T) {
	repo := NewMemoryRepository()
	seed(t, repo, "Apples", "apricots", "Bananas", "Cherries", "Grapes")
	ctx := context.Background()

	page, err := repo.List(ctx, ListQuery{Search: "^ap", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, []string{"Apples", "apricots"}, names(page.Items))

	page, err = repo.List(ctx, ListQuery{Offset: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, 1, page.Offset)
	assert.Equal(t, 2, page.Limit)
	assert.Equal(t, []string{"Bananas", "Cherries"}, names(page.Items))

	page, err = repo.List(ctx, ListQuery{Offset: 3})
	require.NoError(t, err)
	assert.Equal(t, 5, page.Total)
	assert.Empty(t, page.Items)

	page, err = repo.List(ctx, ListQuery{Offset: 50, Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, page.Total)
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)

	_, err = repo.List(ctx, ListQuery{Search: "([", Limit: 1})
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestMemoryListZeroLimitCountsOnly(t *testing.T) {
	repo := NewMemoryRepository()
	seed(t, repo, "apple", "avocado", "banana")
	ctx := context.Background()

	page, err := repo.List(ctx, ListQuery{Search: "a"})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 0, page.Limit)
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)

	page, err = repo.List(ctx, ListQuery{Search: "^a", Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, 1, page.Offset)
	assert.Empty(t, page.Items)

	page, err = repo.List(ctx, ListQuery{})
	require.NoError(t, err)
	assert.Len(t, page.Items, 3, "the zero query still lists everything")
}

func TestMemoryFindByIDs(t *testing.T) {
	repo := NewMemoryRepository()
	created := seed(t, repo, "B", "A")
	ctx := context.Background()

	got, err := repo.FindByIDs(ctx, []string{created[0].ID, uuid.NewString(), created[1].ID, created[0].ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, names(got))

	_, err = repo.FindByIDs(ctx, []string{created[0].ID, "nope"})
	assert.ErrorIs(t, err, shared.ErrInvalidID)
	assert.Equal(t, "The Id is not valid.", shared.ErrInvalidID.Error())
}

func TestMemoryCRUD(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	created := seed(t, repo, "Snacks", "Drinks")

	_, err := repo.Create(ctx, "Snacks", "")
	assert.ErrorIs(t, err, shared.ErrDuplicate)

	byName, err := repo.FindByName(ctx, "Drinks")
	require.NoError(t, err)
	assert.Equal(t, created[1].ID, byName.ID)

	missing, err := repo.FindByID(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Nil(t, missing)
	_, err = repo.FindByID(ctx, "123")
	assert.ErrorIs(t, err, shared.ErrInvalidID)

	note := "salty"
	updated, err := repo.Update(ctx, created[0].ID, Patch{Note: &note})
	require.NoError(t, err)
	assert.Equal(t, "Snacks", updated.Name)
	assert.Equal(t, "salty", updated.Note)

	taken := "Drinks"
	_, err = repo.Update(ctx, created[0].ID, Patch{Name: &taken})
	assert.ErrorIs(t, err, shared.ErrDuplicate)

	gone, err := repo.Update(ctx, uuid.NewString(), Patch{Note: &note})
	require.NoError(t, err)
	assert.Nil(t, gone)

	deleted, err := repo.Delete(ctx, created[0].ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, err = repo.Delete(ctx, created[0].ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}
