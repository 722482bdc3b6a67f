package modulink

import (
	"context"
	"io"
	"log/slog"

	"github.com/aretw0/modulink/internal/runtime"
	"github.com/aretw0/modulink/pkg/domain"
	"github.com/aretw0/modulink/pkg/observability"
	"github.com/aretw0/modulink/pkg/ports"
)

// Chain is the high-level entry point of the library.
// It wraps the internal runtime and provides a simplified API for consumers.
// A Chain is itself a ports.Link, so chains nest.
type Chain struct {
	runtime *runtime.Engine

	name       string
	logger     *slog.Logger
	maxSteps   int
	links      []ports.Link
	middleware []ports.Middleware
}

var _ ports.Link = (*Chain)(nil)

// Option defines a functional option for configuring the Chain.
type Option func(*Chain)

// WithName names the chain. The name is reported to middleware, logs and Inspect.
func WithName(name string) Option {
	return func(c *Chain) {
		c.name = name
	}
}

// WithLogger sets a custom structured logger for the chain.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Chain) {
		c.logger = logger
	}
}

// WithLinks appends links in declared order.
func WithLinks(links ...ports.Link) Option {
	return func(c *Chain) {
		c.links = append(c.links, links...)
	}
}

// WithMiddleware attaches chain-scoped middleware.
func WithMiddleware(mws ...ports.Middleware) Option {
	return func(c *Chain) {
		c.middleware = append(c.middleware, mws...)
	}
}

// WithMaxSteps bounds the number of link visits per run (default runtime.DefaultMaxSteps).
// n <= 0 disables the bound.
func WithMaxSteps(n int) Option {
	return func(c *Chain) {
		c.maxSteps = n
	}
}

// New builds a chain. It fails with a *domain.StructuralError if a link or
// middleware given as option is invalid.
func New(opts ...Option) (*Chain, error) {
	c := &Chain{maxSteps: runtime.DefaultMaxSteps}
	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if c.name != "" {
		c.logger = c.logger.With("chain", c.name)
	}

	c.runtime = runtime.NewEngine(
		runtime.WithName(c.name),
		runtime.WithLogger(c.logger),
		runtime.WithMaxSteps(c.maxSteps),
	)

	for _, l := range c.links {
		if err := c.runtime.AddLink(l); err != nil {
			return nil, err
		}
	}
	for _, mw := range c.middleware {
		if err := c.runtime.Use(mw); err != nil {
			return nil, err
		}
	}
	c.links, c.middleware = nil, nil

	return c, nil
}

// Name implements ports.Link.
func (c *Chain) Name() string { return c.name }

// AddLink appends l to the declared order. Names must be unique within the chain.
func (c *Chain) AddLink(l ports.Link) error {
	return c.runtime.AddLink(l)
}

// ConnectOption configures a connection.
type ConnectOption func(*connectConfig)

type connectConfig struct {
	label string
}

// Label annotates a connection in Inspect output.
func Label(label string) ConnectOption {
	return func(cc *connectConfig) {
		cc.label = label
	}
}

// Connect routes from one link to another when cond holds on the context
// the first link produced. Connections are evaluated before declared order,
// first registered first.
func (c *Chain) Connect(from, to string, cond domain.Condition, opts ...ConnectOption) error {
	var cc connectConfig
	for _, opt := range opts {
		opt(&cc)
	}
	return c.runtime.Connect(from, to, cond, cc.label)
}

// Use attaches mw to the whole chain, or only to the named links.
func (c *Chain) Use(mw ports.Middleware, links ...string) error {
	return c.runtime.Use(mw, links...)
}

// Inspect returns the structural snapshot of the chain.
func (c *Chain) Inspect() domain.Snapshot {
	return c.runtime.Inspect()
}

// Run executes the chain. It returns an error only when the chain has no
// links; failures raised by links are recorded in the returned context.
func (c *Chain) Run(ctx context.Context, initial *domain.Context) (*domain.Context, error) {
	out, _, err := c.runtime.Run(ctx, initial)
	return out, err
}

// RunWithReport executes the chain and also returns its execution report.
func (c *Chain) RunWithReport(ctx context.Context, initial *domain.Context) (*domain.Context, *observability.Report, error) {
	return c.runtime.Run(ctx, initial)
}

// Call implements ports.Link.
func (c *Chain) Call(ctx context.Context, in *domain.Context) (*domain.Context, error) {
	return c.Run(ctx, in)
}
