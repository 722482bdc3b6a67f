package domain_test

import (
	"sync"
	"testing"

	"github.com/aretw0/modulink/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScratch_NamespacesAreIsolated(t *testing.T) {
	s := domain.NewScratch("run-1")

	s.Append("timing", "validate", 10)
	s.Append("audit", "validate", "seen")
	s.Append("timing", "send", 20)

	assert.Equal(t, "run-1", s.RunID())
	assert.Equal(t, []string{"audit", "timing"}, s.Namespaces())

	timing := s.Entries("timing")
	require.Len(t, timing, 2)
	assert.Equal(t, "validate", timing[0].Key)
	assert.Equal(t, "send", timing[1].Key)
	assert.Len(t, s.Entries("audit"), 1)
	assert.Empty(t, s.Entries("missing"))
}

func TestScratch_PutTake(t *testing.T) {
	s := domain.NewScratch("run")

	s.Put("timing", "start", 1)
	s.Put("other", "start", 2)

	v, ok := s.Lookup("timing", "start")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	v, ok = s.Take("timing", "start")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = s.Lookup("timing", "start")
	assert.False(t, ok)

	v, _ = s.Lookup("other", "start")
	assert.Equal(t, 2, v)
}

func TestScratch_ConcurrentAppend(t *testing.T) {
	s := domain.NewScratch("run")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Append("ns", "k", i)
		}(i)
	}
	wg.Wait()

	assert.Len(t, s.Entries("ns"), 50)
	assert.Len(t, s.Snapshot()["ns"], 50)
}
