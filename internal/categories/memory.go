package categories

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/store-mgmt/store-api/internal/shared"
)

// MemoryRepository keeps categories in process memory.
type MemoryRepository struct {
	mu   sync.RWMutex
	byID map[string]Category
}

// NewMemoryRepository constructs an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: make(map[string]Category)}
}

func (m *MemoryRepository) FindByID(ctx context.Context, id string) (*Category, error) {
	parsed, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.byID[parsed.String()]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (m *MemoryRepository) FindByIDs(ctx context.Context, ids []string) ([]Category, error) {
	parsed, err := ParseIDs(ids)
	if err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := make(map[string]bool, len(parsed))
	out := []Category{}
	for _, id := range parsed {
		key := id.String()
		if c, ok := m.byID[key]; ok && !seen[key] {
			seen[key] = true
			out = append(out, c)
		}
	}
	sortByName(out)
	return out, nil
}

func (m *MemoryRepository) FindByName(ctx context.Context, name string) (*Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.byID {
		if c.Name == name {
			return &c, nil
		}
	}
	return nil, nil
}

func (m *MemoryRepository) List(ctx context.Context, q ListQuery) (Page, error) {
	re, err := compileSearch(q.Search)
	if err != nil {
		return Page{}, err
	}
	m.mu.RLock()
	matches := make([]Category, 0, len(m.byID))
	for _, c := range m.byID {
		if re == nil || re.MatchString(c.Name) {
			matches = append(matches, c)
		}
	}
	m.mu.RUnlock()
	sortByName(matches)

	if q.IsZero() {
		return shared.NewPage(matches, len(matches), 0, 0), nil
	}
	total := len(matches)
	if q.Limit == 0 {
		return shared.NewPage[Category](nil, total, q.Offset, 0), nil
	}
	start := min(q.Offset, total)
	end := min(start+q.Limit, total)
	window := append([]Category(nil), matches[start:end]...)
	return shared.NewPage(window, total, q.Offset, q.Limit), nil
}

func (m *MemoryRepository) Create(ctx context.Context, name, note string) (*Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.nameTakenLocked(name, "") {
		return nil, fmt.Errorf("%w: category %q already exists", shared.ErrDuplicate, name)
	}
	c := Category{ID: uuid.NewString(), Name: name, Note: note}
	m.byID[c.ID] = c
	return &c, nil
}

func (m *MemoryRepository) Update(ctx context.Context, id string, patch Patch) (*Category, error) {
	parsed, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byID[parsed.String()]
	if !ok {
		return nil, nil
	}
	if patch.Name != nil {
		if m.nameTakenLocked(*patch.Name, c.ID) {
			return nil, fmt.Errorf("%w: category %q already exists", shared.ErrDuplicate, *patch.Name)
		}
		c.Name = *patch.Name
	}
	if patch.Note != nil {
		c.Note = *patch.Note
	}
	m.byID[c.ID] = c
	return &c, nil
}

func (m *MemoryRepository) Delete(ctx context.Context, id string) (bool, error) {
	parsed, err := ParseID(id)
	if err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[parsed.String()]; !ok {
		return false, nil
	}
	delete(m.byID, parsed.String())
	return true, nil
}

func (m *MemoryRepository) nameTakenLocked(name, exceptID string) bool {
	for id, c := range m.byID {
		if c.Name == name && id != exceptID {
			return true
		}
	}
	return false
}

func sortByName(items []Category) {
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
}

var _ Repository = (*MemoryRepository)(nil)
