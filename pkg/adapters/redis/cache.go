package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/modulink/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// Cache implements ports.Cache using Redis.
// Payloads are stored as JSON, so numbers come back as float64.
type Cache struct {
	client *backend.Client
	prefix string
}

var _ ports.Cache = (*Cache)(nil)

type Option func(*Cache)

// WithPrefix sets the key prefix for cached payloads.
func WithPrefix(prefix string) Option {
	return func(c *Cache) {
		c.prefix = prefix
	}
}

// New creates a new Redis cache with options.
func New(address, password string, db int, opts ...Option) *Cache {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis cache from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Cache {
	cache := &Cache{
		client: client,
		prefix: "modulink:memo:",
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache
}

func (c *Cache) key(k string) string {
	return c.prefix + k
}

// Get loads the payload stored under key.
func (c *Cache) Get(ctx context.Context, key string) (map[string]any, bool, error) {
	val, err := c.client.Get(ctx, c.key(key)).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get from redis: %w", err)
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(val), &payload); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	return payload, true, nil
}

// Set stores payload as JSON. A zero ttl means no expiration.
func (c *Cache) Set(ctx context.Context, key string, payload map[string]any, ttl time.Duration) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	if err := c.client.Set(ctx, c.key(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Delete removes a cached payload.
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.key(key)).Err()
}

// Ping checks connectivity.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the redis client.
func (c *Cache) Close() error {
	return c.client.Close()
}
