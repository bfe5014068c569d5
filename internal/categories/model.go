package categories

import (
	"context"
	"strconv"

	"github.com/store-mgmt/store-api/internal/shared"
)

// Category is a named record. Name is unique.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Note string `json:"note"`
}

// Patch carries the fields of an update. Nil fields are left unchanged.
type Patch struct {
	Name *string `json:"name,omitempty"`
	Note *string `json:"note,omitempty"`
}

// ListQuery selects a window of categories. Search is a case-insensitive
// regular expression matched against the name. The zero query lists every
// category; otherwise Limit 0 returns only the match count.
type ListQuery struct {
	Search string `json:"search"`
	Offset int    `json:"offset"`
	Limit  int    `json:"limit"`
}

// IsZero reports whether the query asks for every record unfiltered.
func (q ListQuery) IsZero() bool {
	return q.Search == "" && q.Offset == 0 && q.Limit == 0
}

// CacheParts renders the query as cache key segments.
func (q ListQuery) CacheParts() []string {
	return []string{"list", q.Search, strconv.Itoa(q.Offset), strconv.Itoa(q.Limit)}
}

// Page is a listing window over categories.
type Page = shared.Page[Category]

// Repository persists categories. Single-record lookups return (nil, nil)
// when no record matches; malformed ids fail with shared.ErrInvalidID.
type Repository interface {
	FindByID(ctx context.Context, id string) (*Category, error)
	FindByIDs(ctx context.Context, ids []string) ([]Category, error)
	FindByName(ctx context.Context, name string) (*Category, error)
	List(ctx context.Context, q ListQuery) (Page, error)
	Create(ctx context.Context, name, note string) (*Category, error)
	Update(ctx context.Context, id string, patch Patch) (*Category, error)
	Delete(ctx context.Context, id string) (bool, error)
}
