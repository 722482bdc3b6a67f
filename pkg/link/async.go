package link

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/modulink/pkg/domain"
	"github.com/aretw0/modulink/pkg/ports"
)

// ErrNoResult is returned when an asynchronous link closes its channel without a result.
var ErrNoResult = errors.New("async link produced no result")

// Result is the eventual outcome of an asynchronous link.
type Result struct {
	Context *domain.Context
	Err     error
}

// AsyncFunc starts work and returns a channel delivering exactly one Result.
type AsyncFunc func(ctx context.Context, c *domain.Context) <-chan Result

// AsyncLink normalizes an AsyncFunc into the synchronous Call the engine drives.
// Call waits for the result or for ctx to be done, whichever comes first; a
// cancellation is returned as the context's cause.
type AsyncLink struct {
	name string
	fn   AsyncFunc
}

var _ ports.Link = (*AsyncLink)(nil)

// Async wraps fn as a link named name.
func Async(name string, fn AsyncFunc) *AsyncLink {
	return &AsyncLink{name: name, fn: fn}
}

func (l *AsyncLink) Name() string { return l.name }

func (l *AsyncLink) Call(ctx context.Context, c *domain.Context) (*domain.Context, error) {
	ch := l.fn(ctx, c)
	if ch == nil {
		return nil, fmt.Errorf("async link %q: %w", l.name, ErrNoResult)
	}
	select {
	case <-ctx.Done():
		return nil, context.Cause(ctx)
	case r, ok := <-ch:
		if !ok {
			return nil, fmt.Errorf("async link %q: %w", l.name, ErrNoResult)
		}
		return r.Context, r.Err
	}
}

// Spawn runs fn on its own goroutine over a clone of the incoming context.
// The clone keeps an abandoned goroutine (after cancellation) from touching
// the context the chain continues with.
func Spawn(name string, fn Func) *AsyncLink {
	return Async(name, func(ctx context.Context, c *domain.Context) <-chan Result {
		out := make(chan Result, 1)
		in := c.Clone()
		go func() {
			defer func() {
				if r := recover(); r != nil {
					out <- Result{Err: fmt.Errorf("panic in %q: %v", name, r)}
				}
			}()
			res, err := fn(ctx, in)
			out <- Result{Context: res, Err: err}
		}()
		return out
	})
}
