package link

import (
	"context"
	"fmt"

	"github.com/aretw0/modulink/pkg/domain"
	"github.com/aretw0/modulink/pkg/ports"
)

// When runs l only if cond holds for the incoming context; otherwise the
// context passes through untouched. The returned link keeps l's name.
func When(cond domain.Condition, l ports.Link) ports.Link {
	return New(l.Name(), func(ctx context.Context, c *domain.Context) (*domain.Context, error) {
		if !cond(c.View()) {
			return c, nil
		}
		return l.Call(ctx, c)
	})
}

// Transform replaces the value under key with fn(value).
// A missing key is passed to fn as nil.
func Transform(key string, fn func(value any, v domain.View) (any, error)) *FuncLink {
	return New("transform:"+key, func(ctx context.Context, c *domain.Context) (*domain.Context, error) {
		current, _ := c.Get(key)
		next, err := fn(current, c.View())
		if err != nil {
			return nil, fmt.Errorf("transform %q: %w", key, err)
		}
		return c.WithData(key, next), nil
	})
}

// SetValues merges values into the payload.
func SetValues(values map[string]any) *FuncLink {
	return New("set_values", func(ctx context.Context, c *domain.Context) (*domain.Context, error) {
		return c.WithResult(values), nil
	})
}

// Filter keeps only the payload entries for which keep returns true.
func Filter(keep func(key string, value any) bool) *FuncLink {
	return New("filter", func(ctx context.Context, c *domain.Context) (*domain.Context, error) {
		var drop []string
		for _, k := range c.Keys() {
			v, _ := c.Get(k)
			if !keep(k, v) {
				drop = append(drop, k)
			}
		}
		return c.WithoutKeys(drop...), nil
	})
}
