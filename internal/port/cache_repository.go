package port

import (
	"context"
	"time"
)

type CacheRepository interface {
	// Get returns the cached value, or "" on a miss
	Get(ctx context.Context, key string) (string, error)

	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	// Delete drops keys; missing keys are not an error
	Delete(ctx context.Context, keys ...string) error
}
