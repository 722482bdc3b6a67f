package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/modulink/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exports link executions as Prometheus metrics:
//
//	<ns>_link_executions_total{chain,link,status}
//	<ns>_link_duration_seconds{chain,link}
type Metrics struct {
	executions *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	scratch    string // start times, private to this instance
}

// Prometheus creates the collectors and registers them with reg.
func Prometheus(reg prometheus.Registerer, namespace string) (*Metrics, error) {
	m := &Metrics{
		executions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "link_executions_total",
				Help:      "Total number of link executions by terminal status",
			},
			[]string{"chain", "link", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "link_duration_seconds",
				Help:      "Duration of link executions",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"chain", "link"},
		),
	}

	m.scratch = fmt.Sprintf("prometheus:%s:%p", namespace, m)

	for _, c := range []prometheus.Collector{m.executions, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
	}
	return m, nil
}

func (m *Metrics) Name() string { return "prometheus" }

func (m *Metrics) Before(_ context.Context, e *domain.HookEvent) error {
	e.Scratch.Put(m.scratch, startKey(e), time.Now())
	return nil
}

func (m *Metrics) After(_ context.Context, e *domain.HookEvent) error {
	m.executions.WithLabelValues(e.Chain, e.Link, string(e.Result.Status())).Inc()

	v, ok := e.Scratch.Take(m.scratch, startKey(e))
	if !ok {
		return nil
	}
	started, _ := v.(time.Time)
	m.duration.WithLabelValues(e.Chain, e.Link).Observe(time.Since(started).Seconds())
	return nil
}
