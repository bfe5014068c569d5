package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Loader produces the value stored under a cache key on a miss.
type Loader func(context.Context) (any, error)

// Versioned is a JSON cache whose keys embed a namespace version. Bump
// invalidates every key built before it.
type Versioned interface {
	BuildKey(ctx context.Context, parts ...string) (string, error)
	FetchJSON(ctx context.Context, key string, dest any, loader Loader) error
	Bump(ctx context.Context) error
}

// Redis is a Versioned cache stored in redis.
type Redis struct {
	client     *redis.Client
	ttl        time.Duration
	namespace  string
	versionKey string
}

// NewRedis instantiates the cache helper for namespace.
func NewRedis(client *redis.Client, namespace string, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl, namespace: namespace, versionKey: namespace + ":version"}
}

// Version returns the current cache version, initialising when missing.
func (c *Redis) Version(ctx context.Context) (int64, error) {
	ver, err := c.client.Get(ctx, c.versionKey).Int64()
	if errors.Is(err, redis.Nil) {
		// SetNX so concurrent first readers agree on the initial version.
		if err := c.client.SetNX(ctx, c.versionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return c.client.Get(ctx, c.versionKey).Int64()
	}
	if err != nil {
		return 0, err
	}
	return ver, nil
}

// BuildKey composes the cache key with the current version.
func (c *Redis) BuildKey(ctx context.Context, parts ...string) (string, error) {
	ver, err := c.Version(ctx)
	if err != nil {
		return "", fmt.Errorf("platform/cache: version: %w", err)
	}
	return buildKey(c.namespace, ver, parts), nil
}

// FetchJSON loads a cached value or populates it using the loader.
func (c *Redis) FetchJSON(ctx context.Context, key string, dest any, loader Loader) error {
	if loader == nil {
		return errors.New("platform/cache: loader required")
	}
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		return json.Unmarshal(payload, dest)
	}
	if !errors.Is(err, redis.Nil) {
		return err
	}
	raw, err := load(ctx, loader)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

// Bump invalidates the namespace by incrementing its version.
func (c *Redis) Bump(ctx context.Context) error {
	return c.client.Incr(ctx, c.versionKey).Err()
}

func buildKey(namespace string, ver int64, parts []string) string {
	all := append([]string{namespace}, parts...)
	return fmt.Sprintf("%s:%d", strings.Join(all, ":"), ver)
}

func load(ctx context.Context, loader Loader) ([]byte, error) {
	value, err := loader(ctx)
	if err != nil {
		return nil, err
	}
	return json.Marshal(value)
}

var (
	_ Versioned = (*Redis)(nil)
	_ Versioned = (*Memory)(nil)
)
