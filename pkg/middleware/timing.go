package middleware

import (
	"context"
	"time"

	"github.com/aretw0/modulink/pkg/domain"
)

// TimingNamespace is the default scratch namespace used by Timing.
const TimingNamespace = "timing"

// Timer records how long each observed link took. Start times are held
// with Scratch.Put and durations appended under the timer's namespace,
// one entry per visit keyed by link name.
type Timer struct {
	namespace string
	now       func() time.Time
}

// TimingOption configures a Timer.
type TimingOption func(*Timer)

// WithNamespace stores durations under ns instead of TimingNamespace.
func WithNamespace(ns string) TimingOption {
	return func(t *Timer) {
		t.namespace = ns
	}
}

// WithNow overrides the clock, mostly for tests.
func WithNow(now func() time.Time) TimingOption {
	return func(t *Timer) {
		t.now = now
	}
}

// Timing returns a Timer middleware.
func Timing(opts ...TimingOption) *Timer {
	t := &Timer{namespace: TimingNamespace, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Timer) Name() string { return "timing" }

func (t *Timer) Before(_ context.Context, e *domain.HookEvent) error {
	e.Scratch.Put(t.namespace, startKey(e), t.now())
	return nil
}

func (t *Timer) After(_ context.Context, e *domain.HookEvent) error {
	v, ok := e.Scratch.Take(t.namespace, startKey(e))
	if !ok {
		return nil
	}
	started, _ := v.(time.Time)
	e.Scratch.Append(t.namespace, e.Link, t.now().Sub(started))
	return nil
}

// Durations returns the durations recorded by a Timer in namespace, in visit order.
func Durations(s *domain.Scratch, namespace string) map[string][]time.Duration {
	out := make(map[string][]time.Duration)
	for _, entry := range s.Entries(namespace) {
		if d, ok := entry.Value.(time.Duration); ok {
			out[entry.Key] = append(out[entry.Key], d)
		}
	}
	return out
}

// startKey keeps chain- and link-scoped instances from sharing a start time.
func startKey(e *domain.HookEvent) string {
	return string(e.Placement.Scope) + ":" + e.Link
}
