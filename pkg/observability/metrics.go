// Package observability bridges registry lifecycle hooks to Prometheus.
package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/framepilot/pkg/domain"
)

// Metrics holds the collectors for the navigation registry.
type Metrics struct {
	sessionsActive   prometheus.Gauge
	eventsDispatched *prometheus.CounterVec
	dispatchDuration *prometheus.HistogramVec
}

// NewMetrics builds and registers the collectors on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		sessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "framepilot",
			Name:      "sessions_active",
			Help:      "Number of live navigation sessions.",
		}),
		eventsDispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "framepilot",
			Name:      "events_dispatched_total",
			Help:      "Events dispatched to session machines, by event type.",
		}, []string{"event_type"}),
		dispatchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "framepilot",
			Name:      "dispatch_duration_seconds",
			Help:      "Time spent evaluating one event, by event type.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}, []string{"event_type"}),
	}
	reg.MustRegister(m.sessionsActive, m.eventsDispatched, m.dispatchDuration)
	return m
}

// Hooks returns lifecycle hooks that feed the collectors. Pass the result
// to registry.WithHooks.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnSessionCreate: func(_ context.Context, _ *domain.SessionEvent) {
			m.sessionsActive.Inc()
		},
		OnSessionRemove: func(_ context.Context, _ *domain.SessionEvent) {
			m.sessionsActive.Dec()
		},
		OnDispatch: func(_ context.Context, e *domain.DispatchEvent) {
			m.eventsDispatched.WithLabelValues(string(e.EventType)).Inc()
			m.dispatchDuration.WithLabelValues(string(e.EventType)).Observe(e.Duration.Seconds())
		},
	}
}
