package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/modulink/pkg/domain"
	"github.com/aretw0/modulink/pkg/observability"
	"github.com/aretw0/modulink/pkg/ports"
)

// run is the state of one in-flight execution. It is never shared between runs.
type run struct {
	id       string
	topo     *topology
	scratch  *domain.Scratch
	recorder *observability.Recorder
	logger   *slog.Logger
}

// Run drives initial through the chain and returns the terminal context.
// Link failures never surface as errors: they are recorded as the context's
// exception and routed like any other outcome. The only error is
// domain.ErrEmptyChain.
func (e *Engine) Run(ctx context.Context, initial *domain.Context) (*domain.Context, *observability.Report, error) {
	topo := e.current()
	if len(topo.order) == 0 {
		return nil, nil, fmt.Errorf("run %q: %w", e.name, domain.ErrEmptyChain)
	}
	if initial == nil {
		initial = domain.NewContext(nil)
	}

	id := e.newRunID()
	r := &run{
		id:       id,
		topo:     topo,
		scratch:  domain.NewScratch(id),
		recorder: observability.NewRecorder(id, e.name),
		logger:   e.logger.With("run_id", id),
	}

	r.logger.DebugContext(ctx, "run started", "entry", topo.order[0], "mode", initial.Mode())

	current := initial
	name := topo.order[0]
	visits := 0

	for name != "" {
		if err := ctx.Err(); err != nil {
			cause := context.Cause(ctx)
			if current.Exception() == nil {
				current = current.WithException(&domain.UnhandledException{Link: name, Err: cause})
			}
			r.recorder.Terminate(cause)
			r.logger.WarnContext(ctx, "run canceled", "pending_link", name, "error", cause)
			break
		}
		if e.maxSteps > 0 && visits >= e.maxSteps {
			limit := fmt.Errorf("%w: %d visits, next link %q", domain.ErrStepLimitExceeded, e.maxSteps, name)
			current = current.WithException(errors.Join(current.Exception(), limit))
			r.recorder.Terminate(limit)
			r.logger.WarnContext(ctx, "step limit exceeded", "max_steps", e.maxSteps, "pending_link", name)
			break
		}
		visits++

		current = e.visit(ctx, r, topo.links[name], current)
		name = e.resolveNext(ctx, r, name, current)
	}

	report := r.recorder.Finish(r.scratch)
	r.logger.DebugContext(ctx, "run finished",
		"status", current.Status(),
		"visits", len(report.Visits),
		"duration", report.Duration(),
	)
	return current, report, nil
}

// visit executes one link wrapped in the hook pipeline:
// chain_before, link_before, link, link_after, chain_after.
func (e *Engine) visit(ctx context.Context, r *run, l ports.Link, input *domain.Context) *domain.Context {
	name := l.Name()

	e.observeStage(ctx, r, domain.PositionChainBefore, name, input, nil)
	e.observeStage(ctx, r, domain.PositionLinkBefore, name, input, nil)

	started := time.Now()
	stepped := input.StartStep(name)
	result, err := invoke(ctx, l, stepped)
	if err != nil {
		// A mutable context keeps whatever the link wrote before failing.
		result = stepped.WithException(err)
	}
	result = result.EndStep(name)
	elapsed := time.Since(started)

	e.observeStage(ctx, r, domain.PositionLinkAfter, name, input, result)
	e.observeStage(ctx, r, domain.PositionChainAfter, name, input, result)

	r.recorder.Visit(observability.Visit{
		Link:      name,
		StartedAt: started,
		Duration:  elapsed,
		Status:    result.Status(),
		Err:       err,
	})

	if err != nil {
		r.logger.DebugContext(ctx, "link raised", "link", name, "error", err)
	} else {
		r.logger.DebugContext(ctx, "link completed", "link", name, "status", result.Status(), "duration", elapsed)
	}
	return result
}

// invoke calls the link, turning returned errors, panics and nil results
// into *domain.UnhandledException.
func invoke(ctx context.Context, l ports.Link, c *domain.Context) (out *domain.Context, err error) {
	name := l.Name()
	defer func() {
		if p := recover(); p != nil {
			out = nil
			err = &domain.UnhandledException{Link: name, Err: fmt.Errorf("panic: %v", p), Panic: p}
		}
	}()

	out, err = l.Call(ctx, c)
	if err != nil {
		return nil, &domain.UnhandledException{Link: name, Err: err}
	}
	if out == nil {
		return nil, &domain.UnhandledException{Link: name, Err: domain.ErrNilContext}
	}
	return out, nil
}
