package link

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/modulink/pkg/domain"
	"github.com/aretw0/modulink/pkg/ports"
	"golang.org/x/sync/errgroup"
)

// Parallel runs branches concurrently, each on its own clone of the incoming
// context, then merges their payloads in declaration order (later branches
// win on key conflicts). Business errors recorded by branches are appended.
// The first branch failure cancels the others and is returned. A branch
// whose result carries a new exception (a nested chain, for instance)
// counts as failed.
func Parallel(name string, branches ...ports.Link) *FuncLink {
	return New(name, func(ctx context.Context, c *domain.Context) (*domain.Context, error) {
		results := make([]*domain.Context, len(branches))
		prev := c.Exception()
		g, gctx := errgroup.WithContext(ctx)

		for i, branch := range branches {
			i, branch := i, branch
			g.Go(func() (err error) {
				defer func() {
					if r := recover(); r != nil {
						err = fmt.Errorf("branch %q panicked: %v", branch.Name(), r)
					}
				}()
				res, err := branch.Call(gctx, c.Clone())
				if err != nil {
					return fmt.Errorf("branch %q: %w", branch.Name(), err)
				}
				if res == nil {
					return fmt.Errorf("branch %q: %w", branch.Name(), domain.ErrNilContext)
				}
				if exc := res.Exception(); exc != nil && (prev == nil || !errors.Is(exc, prev)) {
					return fmt.Errorf("branch %q: %w", branch.Name(), exc)
				}
				results[i] = res
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		base := len(c.Errors())
		out := c
		for _, res := range results {
			out = out.WithResult(res.Data())
			errs := res.Errors()
			if len(errs) < base {
				continue
			}
			for _, e := range errs[base:] {
				out = out.AddError(e.Message, e.Code)
			}
		}
		return out, nil
	})
}
