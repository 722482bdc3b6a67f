package dsl

import (
	"fmt"

	"github.com/aretw0/modulink"
	"github.com/aretw0/modulink/pkg/domain"
	"github.com/aretw0/modulink/pkg/ports"
)

// Builder collects links, connections and middleware, and compiles them
// into a chain. Registration errors are reported once, by Build.
type Builder struct {
	name       string
	links      []*LinkBuilder
	pending    []edge
	middleware []scoped
}

type scoped struct {
	mw    ports.Middleware
	links []string
}

// New creates a builder for a chain named name.
func New(name string) *Builder {
	return &Builder{name: name}
}

// Add appends l to the declared order and returns its builder.
func (b *Builder) Add(l ports.Link) *LinkBuilder {
	lb := &LinkBuilder{link: l, builder: b}
	b.links = append(b.links, lb)
	return lb
}

// Then appends links in declared order.
func (b *Builder) Then(links ...ports.Link) *Builder {
	for _, l := range links {
		b.Add(l)
	}
	return b
}

// Link returns the builder of a previously added link, or nil.
func (b *Builder) Link(name string) *LinkBuilder {
	for _, lb := range b.links {
		if lb.link != nil && lb.link.Name() == name {
			return lb
		}
	}
	return nil
}

// Branch routes from one link to another when cond holds.
func (b *Builder) Branch(from, to string, cond domain.Condition) *Builder {
	b.pending = append(b.pending, edge{from: from, to: to, cond: cond})
	return b
}

// Use attaches mw to the chain, or only to the named links.
func (b *Builder) Use(mw ports.Middleware, links ...string) *Builder {
	b.middleware = append(b.middleware, scoped{mw: mw, links: links})
	return b
}

// Build compiles the definition into a chain. opts are applied after the
// builder's own name, so they may override it.
func (b *Builder) Build(opts ...modulink.Option) (*modulink.Chain, error) {
	links := make([]ports.Link, 0, len(b.links))
	for _, lb := range b.links {
		links = append(links, lb.link)
	}

	chainOpts := append([]modulink.Option{modulink.WithName(b.name), modulink.WithLinks(links...)}, opts...)
	chain, err := modulink.New(chainOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build chain %q: %w", b.name, err)
	}

	for _, e := range b.edges() {
		if err := chain.Connect(e.from, e.to, e.cond, modulink.Label(e.label)); err != nil {
			return nil, fmt.Errorf("failed to build chain %q: %w", b.name, err)
		}
	}
	for _, s := range b.middleware {
		if err := chain.Use(s.mw, s.links...); err != nil {
			return nil, fmt.Errorf("failed to build chain %q: %w", b.name, err)
		}
	}
	for _, lb := range b.links {
		for _, mw := range lb.middleware {
			if err := chain.Use(mw, lb.link.Name()); err != nil {
				return nil, fmt.Errorf("failed to build chain %q: %w", b.name, err)
			}
		}
	}
	return chain, nil
}

// edges lists per-link connections first, in link order, then Branch calls.
func (b *Builder) edges() []edge {
	var out []edge
	for _, lb := range b.links {
		out = append(out, lb.edges...)
	}
	return append(out, b.pending...)
}
