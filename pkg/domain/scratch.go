package domain

import (
	"slices"
	"sync"
	"time"
)

// Entry is one record appended to a Scratch namespace.
type Entry struct {
	Key   string    `json:"key" yaml:"key"`
	Value any       `json:"value" yaml:"value"`
	At    time.Time `json:"at" yaml:"at"`
}

// Scratch is the per-run side channel shared by middleware.
// Records are grouped by namespace so middleware instances do not clobber each other:
// Append is append-only, Put/Take hold transient per-namespace values
// (e.g. a start time carried from a before hook to its after hook).
// Safe for concurrent use.
type Scratch struct {
	mu      sync.Mutex
	runID   string
	entries map[string][]Entry
	values  map[string]map[string]any
}

// NewScratch creates an empty scratch for the given run.
func NewScratch(runID string) *Scratch {
	return &Scratch{
		runID:   runID,
		entries: make(map[string][]Entry),
		values:  make(map[string]map[string]any),
	}
}

// RunID identifies the run owning this scratch.
func (s *Scratch) RunID() string { return s.runID }

// Append adds a record to namespace.
func (s *Scratch) Append(namespace, key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[namespace] = append(s.entries[namespace], Entry{Key: key, Value: value, At: time.Now()})
}

// Entries returns a copy of the records in namespace, in append order.
func (s *Scratch) Entries(namespace string) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.entries[namespace])
}

// Put stores a transient value in namespace.
func (s *Scratch) Put(namespace, key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ns, ok := s.values[namespace]
	if !ok {
		ns = make(map[string]any)
		s.values[namespace] = ns
	}
	ns[key] = value
}

// Lookup reads a transient value.
func (s *Scratch) Lookup(namespace, key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[namespace][key]
	return v, ok
}

// Take reads and removes a transient value.
func (s *Scratch) Take(namespace, key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[namespace][key]
	if ok {
		delete(s.values[namespace], key)
	}
	return v, ok
}

// Namespaces lists the namespaces holding appended records, sorted.
func (s *Scratch) Namespaces() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.entries))
	for ns := range s.entries {
		out = append(out, ns)
	}
	slices.Sort(out)
	return out
}

// Snapshot copies every appended record.
func (s *Scratch) Snapshot() map[string][]Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string][]Entry, len(s.entries))
	for ns, entries := range s.entries {
		out[ns] = slices.Clone(entries)
	}
	return out
}
