package runtime

import (
	"maps"
	"slices"

	"github.com/aretw0/modulink/pkg/domain"
	"github.com/aretw0/modulink/pkg/ports"
)

type connection struct {
	to    string
	cond  domain.Condition
	label string
}

type attachment struct {
	mw   ports.Middleware
	name string
}

// topology is the registered structure of a chain. Once published by
// Engine.mutate it is never modified again.
type topology struct {
	order       []string
	links       map[string]ports.Link
	connections map[string][]connection
	chainMW     []attachment
	linkMW      map[string][]attachment
}

func newTopology() *topology {
	return &topology{
		links:       make(map[string]ports.Link),
		connections: make(map[string][]connection),
		linkMW:      make(map[string][]attachment),
	}
}

func (t *topology) clone() *topology {
	next := &topology{
		order:       slices.Clone(t.order),
		links:       maps.Clone(t.links),
		connections: make(map[string][]connection, len(t.connections)),
		chainMW:     slices.Clone(t.chainMW),
		linkMW:      make(map[string][]attachment, len(t.linkMW)),
	}
	for k, v := range t.connections {
		next.connections[k] = slices.Clone(v)
	}
	for k, v := range t.linkMW {
		next.linkMW[k] = slices.Clone(v)
	}
	return next
}

// successor is the link following name in declared order, or "" at the end.
func (t *topology) successor(name string) string {
	i := slices.Index(t.order, name)
	if i < 0 || i+1 >= len(t.order) {
		return ""
	}
	return t.order[i+1]
}

// bucket returns the middleware observing link at position, in registration order.
func (t *topology) bucket(p domain.Position, link string) (domain.ScopeKind, []attachment) {
	switch p {
	case domain.PositionChainBefore, domain.PositionChainAfter:
		return domain.ScopeChain, t.chainMW
	default:
		return domain.ScopeLink, t.linkMW[link]
	}
}

func (t *topology) snapshot(name string) domain.Snapshot {
	s := domain.Snapshot{
		Name:        name,
		Links:       slices.Clone(t.order),
		Connections: []domain.ConnectionInfo{},
		Middleware:  []domain.MiddlewareInfo{},
	}

	for _, from := range t.order {
		for i, c := range t.connections[from] {
			s.Connections = append(s.Connections, domain.ConnectionInfo{
				From:  from,
				To:    c.to,
				Label: c.label,
				Index: i,
			})
		}
	}

	for _, p := range domain.Positions {
		if p == domain.PositionChainBefore || p == domain.PositionChainAfter {
			s.Middleware = append(s.Middleware, infos(t.chainMW, domain.ScopeChain, "", p)...)
			continue
		}
		for _, link := range t.order {
			s.Middleware = append(s.Middleware, infos(t.linkMW[link], domain.ScopeLink, link, p)...)
		}
	}
	return s
}

func infos(atts []attachment, scope domain.ScopeKind, link string, p domain.Position) []domain.MiddlewareInfo {
	out := make([]domain.MiddlewareInfo, 0, len(atts))
	for i, a := range atts {
		out = append(out, domain.MiddlewareInfo{
			Name: a.name,
			Placement: domain.Placement{
				Scope:    scope,
				Link:     link,
				Position: p,
				Index:    i,
			},
		})
	}
	return out
}
