package runtime

import (
	"context"
	"fmt"

	"github.com/aretw0/modulink/pkg/domain"
)

// resolveNext picks the link to run after from.
// Priority 1: connections leaving from, first satisfied in registration order.
// Priority 2: the next link in declared order.
// "" terminates the run.
func (e *Engine) resolveNext(ctx context.Context, r *run, from string, current *domain.Context) string {
	view := current.View()
	for _, c := range r.topo.connections[from] {
		if e.evaluate(ctx, r, from, c, view) {
			r.logger.DebugContext(ctx, "connection taken", "from", from, "to", c.to, "label", c.label)
			return c.to
		}
	}
	return r.topo.successor(from)
}

// evaluate runs a connection condition. A panicking condition counts as not satisfied.
func (e *Engine) evaluate(ctx context.Context, r *run, from string, c connection, view domain.View) (ok bool) {
	defer func() {
		if p := recover(); p != nil {
			ok = false
			r.logger.WarnContext(ctx, "connection condition panicked",
				"from", from,
				"to", c.to,
				"error", fmt.Errorf("panic: %v", p),
			)
		}
	}()
	return c.cond(view)
}
