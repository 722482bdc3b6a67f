package link

import (
	"context"

	"github.com/aretw0/modulink/pkg/domain"
	"github.com/aretw0/modulink/pkg/ports"
)

// Func is the signature of a synchronous link body.
type Func func(ctx context.Context, c *domain.Context) (*domain.Context, error)

// FuncLink adapts a Func to ports.Link.
type FuncLink struct {
	name string
	fn   Func
}

var _ ports.Link = (*FuncLink)(nil)

// New wraps fn as a link named name.
func New(name string, fn Func) *FuncLink {
	return &FuncLink{name: name, fn: fn}
}

func (l *FuncLink) Name() string { return l.name }

func (l *FuncLink) Call(ctx context.Context, c *domain.Context) (*domain.Context, error) {
	return l.fn(ctx, c)
}

// Alias exposes a link under another name.
type Alias struct {
	name string
	link ports.Link
}

var _ ports.Link = (*Alias)(nil)

// Named returns l registered under alias, e.g. to use the same link twice in one chain.
func Named(alias string, l ports.Link) *Alias {
	return &Alias{name: alias, link: l}
}

func (a *Alias) Name() string { return a.name }

func (a *Alias) Call(ctx context.Context, c *domain.Context) (*domain.Context, error) {
	return a.link.Call(ctx, c)
}

// Unwrap returns the aliased link.
func (a *Alias) Unwrap() ports.Link { return a.link }
