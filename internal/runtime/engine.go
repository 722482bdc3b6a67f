package runtime

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/aretw0/modulink/pkg/domain"
	"github.com/aretw0/modulink/pkg/ports"
	"github.com/google/uuid"
)

// DefaultMaxSteps bounds the number of link visits in one run.
const DefaultMaxSteps = 1000

// Engine is the chain state machine: it owns the registered structure and
// drives runs over it. Structure lives in an immutable topology value that
// is replaced on every mutation, so a run keeps the topology it started with.
type Engine struct {
	mu   sync.RWMutex
	topo *topology

	name     string
	logger   *slog.Logger
	maxSteps int
	newRunID func() string
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithName sets the chain name reported to middleware and in snapshots.
func WithName(name string) EngineOption {
	return func(e *Engine) {
		e.name = name
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMaxSteps bounds the number of link visits per run. n <= 0 disables the bound.
func WithMaxSteps(n int) EngineOption {
	return func(e *Engine) {
		e.maxSteps = n
	}
}

// WithRunIDGenerator overrides how run IDs are generated (default: random UUIDs).
func WithRunIDGenerator(fn func() string) EngineOption {
	return func(e *Engine) {
		if fn != nil {
			e.newRunID = fn
		}
	}
}

// NewEngine creates an engine with no links.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		topo:     newTopology(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxSteps: DefaultMaxSteps,
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name returns the chain name.
func (e *Engine) Name() string { return e.name }

// AddLink appends l to the declared link order.
func (e *Engine) AddLink(l ports.Link) error {
	if l == nil {
		return domain.NewStructuralError("add_link", "", fmt.Errorf("%w: nil link", domain.ErrInvalidArgument))
	}
	name := l.Name()
	if name == "" {
		return domain.NewStructuralError("add_link", "", fmt.Errorf("%w: link has no name", domain.ErrInvalidArgument))
	}

	return e.mutate(func(t *topology) error {
		if _, exists := t.links[name]; exists {
			return domain.NewStructuralError("add_link", name, domain.ErrDuplicateLink)
		}
		t.order = append(t.order, name)
		t.links[name] = l
		return nil
	})
}

// Connect registers a conditional edge from one link to another.
// Connections leaving the same link are evaluated in registration order.
func (e *Engine) Connect(from, to string, cond domain.Condition, label string) error {
	subject := from + "->" + to
	if cond == nil {
		return domain.NewStructuralError("connect", subject, fmt.Errorf("%w: nil condition", domain.ErrInvalidArgument))
	}

	return e.mutate(func(t *topology) error {
		for _, name := range []string{from, to} {
			if _, ok := t.links[name]; !ok {
				return domain.NewStructuralError("connect", subject, fmt.Errorf("%w: %q", domain.ErrUnknownLink, name))
			}
		}
		t.connections[from] = append(t.connections[from], connection{to: to, cond: cond, label: label})
		return nil
	})
}

// Use attaches mw at chain scope when no link is given, otherwise to each named link.
// The middleware observes both the before and the after stage of its scope.
func (e *Engine) Use(mw ports.Middleware, links ...string) error {
	if mw == nil {
		return domain.NewStructuralError("use", "", fmt.Errorf("%w: nil middleware", domain.ErrInvalidArgument))
	}
	att := attachment{mw: mw, name: middlewareName(mw)}

	return e.mutate(func(t *topology) error {
		if len(links) == 0 {
			t.chainMW = append(t.chainMW, att)
			return nil
		}
		for _, name := range links {
			if _, ok := t.links[name]; !ok {
				return domain.NewStructuralError("use", att.name, fmt.Errorf("%w: %q", domain.ErrUnknownLink, name))
			}
		}
		for _, name := range links {
			t.linkMW[name] = append(t.linkMW[name], att)
		}
		return nil
	})
}

// Inspect describes the registered structure. It never runs anything.
func (e *Engine) Inspect() domain.Snapshot {
	return e.current().snapshot(e.name)
}

// mutate applies fn to a copy of the topology and publishes the copy only if fn succeeds.
func (e *Engine) mutate(fn func(*topology) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.topo.clone()
	if err := fn(next); err != nil {
		return err
	}
	e.topo = next
	return nil
}

func (e *Engine) current() *topology {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.topo
}

func middlewareName(mw ports.Middleware) string {
	if n, ok := mw.(ports.Named); ok && n.Name() != "" {
		return n.Name()
	}
	return fmt.Sprintf("%T", mw)
}
