package users

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/store-mgmt/store-api/internal/shared"
)

// MemoryRepository keeps users in process memory. Used for local runs and
// tests.
type MemoryRepository struct {
	mu     sync.RWMutex
	byID   map[string]User
	byName map[string]string
}

// NewMemoryRepository constructs an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:   make(map[string]User),
		byName: make(map[string]string),
	}
}

// FindByID returns the user with id or nil.
func (m *MemoryRepository) FindByID(ctx context.Context, id string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

// FindByName returns the user named username or nil.
func (m *MemoryRepository) FindByName(ctx context.Context, username string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byName[username]
	if !ok {
		return nil, nil
	}
	user := m.byID[id]
	return &user, nil
}

// Create hashes password and stores a new user.
func (m *MemoryRepository) Create(ctx context.Context, username, password, role string) (*User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, taken := m.byName[username]; taken {
		return nil, fmt.Errorf("%w: username %q already exists", shared.ErrDuplicate, username)
	}
	user := User{
		ID:           uuid.NewString(),
		Username:     username,
		Role:         role,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	m.byID[user.ID] = user
	m.byName[username] = user.ID
	return &user, nil
}

// Delete removes a user. It exists so callers can model a subject vanishing
// after a token was issued.
func (m *MemoryRepository) Delete(ctx context.Context, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.byID[id]; ok {
		delete(m.byName, user.Username)
		delete(m.byID, id)
	}
}

var _ Store = (*MemoryRepository)(nil)
