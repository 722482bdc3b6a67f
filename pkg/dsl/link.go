package dsl

import (
	"github.com/aretw0/modulink/pkg/domain"
	"github.com/aretw0/modulink/pkg/ports"
)

type edge struct {
	from  string
	to    string
	cond  domain.Condition
	label string
}

// LinkBuilder provides a fluent API for the connections and middleware of one link.
type LinkBuilder struct {
	link       ports.Link
	edges      []edge
	middleware []ports.Middleware
	builder    *Builder
}

// When routes to the link named to when cond holds after this link.
func (n *LinkBuilder) When(cond domain.Condition, to string) *LinkBuilder {
	n.edges = append(n.edges, edge{from: n.name(), to: to, cond: cond})
	return n
}

// Go routes to the link named to unconditionally, overriding declared order.
func (n *LinkBuilder) Go(to string) *LinkBuilder {
	return n.When(domain.Always(), to)
}

// OnError routes to the link named to when a business error was recorded.
func (n *LinkBuilder) OnError(to string) *LinkBuilder {
	return n.When(domain.HasErrors(), to)
}

// OnException routes to the link named to when link code failed.
func (n *LinkBuilder) OnException(to string) *LinkBuilder {
	return n.When(domain.HasException(), to)
}

// Label annotates the last connection added to this link.
func (n *LinkBuilder) Label(label string) *LinkBuilder {
	if len(n.edges) > 0 {
		n.edges[len(n.edges)-1].label = label
	}
	return n
}

// Use attaches link-scoped middleware.
func (n *LinkBuilder) Use(mws ...ports.Middleware) *LinkBuilder {
	n.middleware = append(n.middleware, mws...)
	return n
}

// Then appends the next link and returns its builder.
func (n *LinkBuilder) Then(l ports.Link) *LinkBuilder {
	return n.builder.Add(l)
}

// Chain returns the owning builder.
func (n *LinkBuilder) Chain() *Builder {
	return n.builder
}

func (n *LinkBuilder) name() string {
	if n.link == nil {
		return ""
	}
	return n.link.Name()
}
