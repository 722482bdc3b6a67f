package ports

import (
	"context"

	"github.com/aretw0/modulink/pkg/domain"
)

// Link is a single named processing step.
// Call must return the context to continue with, or an error describing an
// unexpected failure. Business failures are recorded on the returned context
// with AddError instead.
type Link interface {
	// Name identifies the link inside a chain (connections, middleware scope, inspection).
	Name() string

	// Call runs the step. It should honor ctx cancellation when it blocks.
	Call(ctx context.Context, c *domain.Context) (*domain.Context, error)
}
