package runtime_test

import (
	"context"
	"sync"

	"github.com/aretw0/modulink/internal/runtime"
	"github.com/aretw0/modulink/pkg/domain"
	"github.com/aretw0/modulink/pkg/link"
	"github.com/aretw0/modulink/pkg/middleware"
)

func passthrough(name string) *link.FuncLink {
	return link.New(name, func(ctx context.Context, c *domain.Context) (*domain.Context, error) {
		return c, nil
	})
}

// appendPath records the link name under "path" so tests can assert the visit order.
func appendPath(name string) *link.FuncLink {
	return link.New(name, func(ctx context.Context, c *domain.Context) (*domain.Context, error) {
		path, _ := domain.Value[[]any](c, "path")
		return c.WithData("path", append(path, name)), nil
	})
}

func newEngine(t interface{ Fatalf(string, ...any) }, links ...string) *runtime.Engine {
	e := runtime.NewEngine(runtime.WithName("test"))
	for _, name := range links {
		if err := e.AddLink(appendPath(name)); err != nil {
			t.Fatalf("AddLink(%s): %v", name, err)
		}
	}
	return e
}

func pathOf(c *domain.Context) []any {
	path, _ := domain.Value[[]any](c, "path")
	return path
}

// recorder captures hook events in order. Safe for concurrent use.
type recorder struct {
	mu     sync.Mutex
	label  string
	events []string
}

func (r *recorder) middleware() middleware.Funcs {
	return middleware.Funcs{
		Label: r.label,
		BeforeFn: func(ctx context.Context, e *domain.HookEvent) error {
			r.add(e)
			return nil
		},
		AfterFn: func(ctx context.Context, e *domain.HookEvent) error {
			r.add(e)
			return nil
		},
	}
}

func (r *recorder) add(e *domain.HookEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, r.label+"@"+string(e.Placement.Position)+":"+e.Link)
}

func (r *recorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}
