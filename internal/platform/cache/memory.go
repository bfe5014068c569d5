package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory is the in-process Versioned cache used when redis is not
// configured.
type Memory struct {
	c         *gocache.Cache
	namespace string
	version   atomic.Int64
}

// NewMemory creates an in-process cache with the given entry TTL.
func NewMemory(namespace string, ttl time.Duration) *Memory {
	m := &Memory{c: gocache.New(ttl, time.Minute), namespace: namespace}
	m.version.Store(1)
	return m
}

func (m *Memory) BuildKey(_ context.Context, parts ...string) (string, error) {
	return buildKey(m.namespace, m.version.Load(), parts), nil
}

func (m *Memory) FetchJSON(ctx context.Context, key string, dest any, loader Loader) error {
	if loader == nil {
		return errors.New("platform/cache: loader required")
	}
	if v, ok := m.c.Get(key); ok {
		if raw, ok := v.([]byte); ok {
			return json.Unmarshal(raw, dest)
		}
	}
	raw, err := load(ctx, loader)
	if err != nil {
		return err
	}
	m.c.SetDefault(key, raw)
	return json.Unmarshal(raw, dest)
}

// Bump advances the version and drops stale entries.
func (m *Memory) Bump(context.Context) error {
	m.version.Add(1)
	m.c.Flush()
	return nil
}
