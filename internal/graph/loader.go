package graph

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/store-mgmt/store-api/internal/categories"
)

// CategoryLoader memoises category lookups for one request. Concurrent
// loads of the same id share a single fetch; LoadMany batches the ids it
// has not seen into one query.
type CategoryLoader struct {
	svc   *categories.Service
	group singleflight.Group

	mu   sync.Mutex
	memo map[string]*categories.Category
}

// NewCategoryLoader creates a loader scoped to a single request.
func NewCategoryLoader(svc *categories.Service) *CategoryLoader {
	return &CategoryLoader{svc: svc, memo: make(map[string]*categories.Category)}
}

// Load returns the category with id, or nil when it does not exist.
func (l *CategoryLoader) Load(ctx context.Context, id string) (*categories.Category, error) {
	parsed, err := categories.ParseID(id)
	if err != nil {
		return nil, err
	}
	id = parsed.String()
	if c, ok := l.cached(id); ok {
		return c, nil
	}
	v, err, _ := l.group.Do(id, func() (any, error) {
		items, err := l.svc.GetMany(ctx, []string{id})
		if err != nil {
			return nil, err
		}
		l.store([]string{id}, items)
		c, _ := l.cached(id)
		return c, nil
	})
	if err != nil {
		return nil, err
	}
	c, _ := v.(*categories.Category)
	return c, nil
}

// LoadMany returns one entry per id in order, nil for ids that do not
// exist.
func (l *CategoryLoader) LoadMany(ctx context.Context, ids []string) ([]*categories.Category, error) {
	parsed, err := categories.ParseIDs(ids)
	if err != nil {
		return nil, err
	}
	ids = make([]string, len(parsed))
	for i, id := range parsed {
		ids[i] = id.String()
	}
	var missing []string
	for _, id := range ids {
		if _, ok := l.cached(id); !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		items, err := l.svc.GetMany(ctx, missing)
		if err != nil {
			return nil, err
		}
		l.store(missing, items)
	}
	out := make([]*categories.Category, len(ids))
	for i, id := range ids {
		out[i], _ = l.cached(id)
	}
	return out, nil
}

// Prime records c, e.g. after a mutation returned it.
func (l *CategoryLoader) Prime(c *categories.Category) {
	if c == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	cp := *c
	l.memo[c.ID] = &cp
}

// Clear forgets id.
func (l *CategoryLoader) Clear(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.memo, id)
}

func (l *CategoryLoader) cached(id string) (*categories.Category, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	c, ok := l.memo[id]
	return c, ok
}

// store memoises the fetched items and remembers requested ids that were
// not found.
func (l *CategoryLoader) store(requested []string, items []categories.Category) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, id := range requested {
		if _, ok := l.memo[id]; !ok {
			l.memo[id] = nil
		}
	}
	for i := range items {
		c := items[i]
		l.memo[c.ID] = &c
	}
}
