package ports

import (
	"context"
	"time"
)

// Cache stores payloads produced by memoized links.
type Cache interface {
	// Get returns the payload stored under key. A miss reports false and no error.
	Get(ctx context.Context, key string) (map[string]any, bool, error)

	// Set stores payload under key. A zero ttl means no expiration.
	Set(ctx context.Context, key string, payload map[string]any, ttl time.Duration) error
}
