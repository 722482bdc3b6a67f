package observability

import (
	"time"

	"github.com/aretw0/modulink/pkg/domain"
)

// Visit is one link execution within a run.
type Visit struct {
	Link      string        `json:"link" yaml:"link"`
	StartedAt time.Time     `json:"started_at" yaml:"started_at"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
	Status    domain.Status `json:"status" yaml:"status"`
	Err       error         `json:"-" yaml:"-"` // exception raised by this visit, if any
}

// Report is the execution report of a single run.
type Report struct {
	RunID     string    `json:"run_id" yaml:"run_id"`
	Chain     string    `json:"chain,omitempty" yaml:"chain,omitempty"`
	StartedAt time.Time `json:"started_at" yaml:"started_at"`
	EndedAt   time.Time `json:"ended_at" yaml:"ended_at"`

	Visits []Visit `json:"visits" yaml:"visits"`

	// Observations are the middleware failures swallowed during the run.
	Observations []error `json:"-" yaml:"-"`

	// Scratch is the run's scratch at the end of the run, by namespace.
	Scratch map[string][]domain.Entry `json:"scratch,omitempty" yaml:"scratch,omitempty"`

	// Terminated is set when the run stopped early (step limit or cancellation).
	Terminated error `json:"-" yaml:"-"`
}

// Path returns the names of the visited links, in order.
func (r *Report) Path() []string {
	out := make([]string, len(r.Visits))
	for i, v := range r.Visits {
		out[i] = v.Link
	}
	return out
}

// Duration is the wall time of the run.
func (r *Report) Duration() time.Duration {
	if r.EndedAt.IsZero() {
		return 0
	}
	return r.EndedAt.Sub(r.StartedAt)
}

// Recorder accumulates a Report. It is owned by a single run.
type Recorder struct {
	report Report
}

// NewRecorder starts a report for the given run.
func NewRecorder(runID, chain string) *Recorder {
	return &Recorder{report: Report{
		RunID:     runID,
		Chain:     chain,
		StartedAt: time.Now(),
	}}
}

// Visit records one link execution.
func (r *Recorder) Visit(v Visit) {
	r.report.Visits = append(r.report.Visits, v)
}

// Observe records a swallowed middleware failure.
func (r *Recorder) Observe(err error) {
	r.report.Observations = append(r.report.Observations, err)
}

// Terminate records why the run stopped before routing ended.
func (r *Recorder) Terminate(err error) {
	r.report.Terminated = err
}

// Finish seals the report, copying the scratch contents.
func (r *Recorder) Finish(s *domain.Scratch) *Report {
	r.report.EndedAt = time.Now()
	if s != nil {
		r.report.Scratch = s.Snapshot()
	}
	out := r.report
	return &out
}
