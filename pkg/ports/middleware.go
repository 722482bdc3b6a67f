package ports

import (
	"context"

	"github.com/aretw0/modulink/pkg/domain"
)

// Middleware observes link execution. It cannot alter the context flowing
// through the chain: it only sees read-only views and may record data in
// the event's Scratch. Returned errors are logged and reported by the chain,
// never propagated.
type Middleware interface {
	// Before runs ahead of the link, at chain_before or link_before.
	Before(ctx context.Context, e *domain.HookEvent) error

	// After runs once the link returned, at link_after or chain_after.
	After(ctx context.Context, e *domain.HookEvent) error
}

// Named is implemented by middleware that wants a stable name in Inspect output.
type Named interface {
	Name() string
}
