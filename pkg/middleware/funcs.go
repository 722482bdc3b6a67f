package middleware

import (
	"context"

	"github.com/aretw0/modulink/pkg/domain"
	"github.com/aretw0/modulink/pkg/ports"
)

// HookFunc observes one stage of a link execution.
type HookFunc func(ctx context.Context, e *domain.HookEvent) error

// Funcs adapts a pair of functions to ports.Middleware.
// Either function may be nil.
type Funcs struct {
	Label    string
	BeforeFn HookFunc
	AfterFn  HookFunc
}

var (
	_ ports.Middleware = Funcs{}
	_ ports.Named      = Funcs{}
)

func (f Funcs) Name() string {
	if f.Label == "" {
		return "funcs"
	}
	return f.Label
}

func (f Funcs) Before(ctx context.Context, e *domain.HookEvent) error {
	if f.BeforeFn == nil {
		return nil
	}
	return f.BeforeFn(ctx, e)
}

func (f Funcs) After(ctx context.Context, e *domain.HookEvent) error {
	if f.AfterFn == nil {
		return nil
	}
	return f.AfterFn(ctx, e)
}
