package link

import (
	"context"
	"io"
	"log/slog"
	"reflect"
	"time"

	"github.com/aretw0/modulink/pkg/adapters/memory"
	"github.com/aretw0/modulink/pkg/domain"
	"github.com/aretw0/modulink/pkg/ports"
)

// FromCacheKey is set to true on contexts served from a memoized result.
const FromCacheKey = "from_cache"

// KeyFunc derives the cache key for a context.
type KeyFunc func(v domain.View) string

// MemoizeOption configures a memoized link.
type MemoizeOption func(*Memoized)

// WithCache sets the backing cache (default: an in-memory cache).
func WithCache(c ports.Cache) MemoizeOption {
	return func(m *Memoized) {
		m.cache = c
	}
}

// WithCacheLogger reports cache failures, which never fail the link itself.
func WithCacheLogger(logger *slog.Logger) MemoizeOption {
	return func(m *Memoized) {
		m.logger = logger
	}
}

// Memoized caches the keys a link adds or changes, keyed by KeyFunc.
// Input keys the link leaves untouched are never stored, so a hit cannot
// overwrite them. Only successful results (no business error, no
// exception) are stored.
type Memoized struct {
	link   ports.Link
	keyFn  KeyFunc
	ttl    time.Duration
	cache  ports.Cache
	logger *slog.Logger
}

var _ ports.Link = (*Memoized)(nil)

// Memoize wraps l with a result cache. A zero ttl keeps entries until evicted by the backend.
func Memoize(keyFn KeyFunc, l ports.Link, ttl time.Duration, opts ...MemoizeOption) *Memoized {
	m := &Memoized{
		link:  l,
		keyFn: keyFn,
		ttl:   ttl,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.cache == nil {
		m.cache = memory.NewCache()
	}
	if m.logger == nil {
		m.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return m
}

func (m *Memoized) Name() string { return m.link.Name() }

func (m *Memoized) Call(ctx context.Context, c *domain.Context) (*domain.Context, error) {
	key := m.keyFn(c.View())

	payload, ok, err := m.cache.Get(ctx, key)
	if err != nil {
		m.logger.Warn("memoize: cache read failed", "link", m.Name(), "key", key, "error", err)
	} else if ok {
		return c.WithResult(payload).WithData(FromCacheKey, true), nil
	}

	before := c.Data()
	res, err := m.link.Call(ctx, c)
	if err != nil || res == nil {
		return res, err
	}
	if res.Status() == domain.StatusOK {
		if err := m.cache.Set(ctx, key, derived(before, res.Data()), m.ttl); err != nil {
			m.logger.Warn("memoize: cache write failed", "link", m.Name(), "key", key, "error", err)
		}
	}
	return res, nil
}

// derived keeps the entries of after that are new or differ from before.
func derived(before, after map[string]any) map[string]any {
	out := make(map[string]any)
	for k, v := range after {
		if old, ok := before[k]; ok && reflect.DeepEqual(old, v) {
			continue
		}
		out[k] = v
	}
	return out
}
