package domain

import "time"

// Step records one link visit (or any named unit of work) on a Context.
type Step struct {
	Name      string    `json:"name" yaml:"name"`
	StartedAt time.Time `json:"started_at" yaml:"started_at"`
	EndedAt   time.Time `json:"ended_at,omitempty" yaml:"ended_at,omitempty"`
}

// Open reports whether the step was started but not ended yet.
func (s Step) Open() bool {
	return !s.StartedAt.IsZero() && s.EndedAt.IsZero()
}

// Duration is zero unless both ends of the step were recorded.
func (s Step) Duration() time.Duration {
	if s.StartedAt.IsZero() || s.EndedAt.IsZero() {
		return 0
	}
	return s.EndedAt.Sub(s.StartedAt)
}
