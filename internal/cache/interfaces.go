package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss indicates the key was not found or has expired.
var ErrCacheMiss = errors.New("cache miss")

// Cache stores opaque byte values with a TTL. The memory implementation
// serves single-instance deployments, Redis is shared across replicas.
type Cache interface {
	// Get returns ErrCacheMiss when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
