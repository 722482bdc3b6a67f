package runtime

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/modulink/pkg/domain"
)

// observeStage runs every middleware registered for one stage, in
// registration order. result is nil for before stages.
func (e *Engine) observeStage(ctx context.Context, r *run, p domain.Position, link string, input, result *domain.Context) {
	scope, atts := r.topo.bucket(p, link)
	if len(atts) == 0 {
		return
	}

	for i, att := range atts {
		placement := domain.Placement{Scope: scope, Position: p, Index: i}
		if scope == domain.ScopeLink {
			placement.Link = link
		}

		// Each middleware gets its own event so one cannot alter what the next sees.
		ev := &domain.HookEvent{
			Timestamp: time.Now(),
			RunID:     r.id,
			Chain:     e.name,
			Link:      link,
			Placement: placement,
			Context:   input.View(),
			Scratch:   r.scratch,
		}
		if result != nil {
			ev.Result = result.View()
		}

		if err := callHook(ctx, att, ev); err != nil {
			obs := &domain.MiddlewareObservationError{
				Middleware: att.name,
				Link:       link,
				Placement:  placement,
				Err:        err,
			}
			r.recorder.Observe(obs)
			r.logger.WarnContext(ctx, "middleware observation failed",
				"middleware", att.name,
				"link", link,
				"position", p,
				"error", obs,
			)
		}
	}
}

func callHook(ctx context.Context, att attachment, ev *domain.HookEvent) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	if ev.Placement.Position.IsBefore() {
		return att.mw.Before(ctx, ev)
	}
	return att.mw.After(ctx, ev)
}
