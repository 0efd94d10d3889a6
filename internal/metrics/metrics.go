// Package metrics records session activity as prometheus metrics.
package metrics

import (
	"context"
	"net/http"

	"github.com/aretw0/consolehttp/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "consolehttp"

// Outcome label values of consolehttp_sessions_total.
const (
	OutcomeOK     = "ok"
	OutcomeFailed = "failed"
)

// Metrics holds the session collectors.
type Metrics struct {
	registry *prometheus.Registry

	Sessions *prometheus.CounterVec
	Lines    prometheus.Counter
	Active   prometheus.Gauge
	Duration prometheus.Histogram
}

// New creates the collectors and registers them, with the Go and process
// collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Sessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_total",
			Help:      "Number of finished sessions by outcome.",
		}, []string{"outcome"}),
		Lines: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_total",
			Help:      "Number of content lines streamed to clients.",
		}),
		Active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Number of sessions currently streaming.",
		}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "session_duration_seconds",
			Help:      "Duration of sessions from start to close.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		}),
	}
	m.registry.MustRegister(
		m.Sessions, m.Lines, m.Active, m.Duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Hooks returns session hooks updating the collectors.
func (m *Metrics) Hooks() session.Hooks {
	return session.Hooks{
		OnStart: func(context.Context, *session.Event) {
			m.Active.Inc()
		},
		OnLine: func(context.Context, *session.Event) {
			m.Lines.Inc()
		},
		OnClose: func(_ context.Context, e *session.Event) {
			m.Active.Dec()
			m.Duration.Observe(e.Duration.Seconds())
			outcome := OutcomeOK
			if e.Err != nil {
				outcome = OutcomeFailed
			}
			m.Sessions.WithLabelValues(outcome).Inc()
		},
	}
}
