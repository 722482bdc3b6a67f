package runtime_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/aretw0/modulink/pkg/domain"
	"github.com/aretw0/modulink/pkg/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_ConcurrentRunsAreIsolated(t *testing.T) {
	e := newEngine(t, "a", "b", "c")

	// Records each run's input id in its own scratch; leakage would show up as foreign ids.
	require.NoError(t, e.Use(middleware.Funcs{
		Label: "tagger",
		BeforeFn: func(ctx context.Context, ev *domain.HookEvent) error {
			id, _ := ev.Context.Get("id")
			ev.Scratch.Append("ids", ev.Link, id)
			return nil
		},
	}))

	const runs = 32
	var wg sync.WaitGroup
	results := make([]*domain.Context, runs)
	scratches := make([]map[string][]domain.Entry, runs)
	runIDs := make([]string, runs)

	for i := 0; i < runs; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out, report, err := e.Run(context.Background(), domain.NewContext(map[string]any{"id": i}))
			if err != nil {
				t.Errorf("run %d: %v", i, err)
				return
			}
			results[i] = out
			scratches[i] = report.Scratch
			runIDs[i] = report.RunID
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for i := 0; i < runs; i++ {
		require.NotNil(t, results[i], "run %d", i)
		assert.Equal(t, map[string]any{"id": i, "path": []any{"a", "b", "c"}}, results[i].Data(), "run %d", i)

		entries := scratches[i]["ids"]
		require.Len(t, entries, 3, "run %d", i)
		for _, entry := range entries {
			assert.Equal(t, i, entry.Value, fmt.Sprintf("run %d saw another run's data", i))
		}

		assert.False(t, seen[runIDs[i]], "run ids must be unique")
		seen[runIDs[i]] = true
	}
}
