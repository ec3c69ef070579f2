// Package observability exposes Prometheus instrumentation for the
// auto-wrap engine.
package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/shardtree/pkg/domain"
)

// Metrics implements traversal hooks backed by Prometheus collectors.
type Metrics struct {
	visits *prometheus.CounterVec
	wraps  *prometheus.CounterVec
	params prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		visits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shardtree",
			Name:      "modules_visited_total",
			Help:      "Modules visited by the auto-wrap engine, by kind.",
		}, []string{"kind"}),
		wraps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shardtree",
			Name:      "modules_wrapped_total",
			Help:      "Modules turned into shard boundaries, by kind.",
		}, []string{"kind"}),
		params: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shardtree",
			Name:      "params_wrapped_total",
			Help:      "Trainable parameter elements claimed by shard boundaries.",
		}),
	}
	reg.MustRegister(m.visits, m.wraps, m.params)
	return m
}

// Hooks returns traversal hooks feeding these collectors. Combine with
// shardtree.WithHooks.
func (m *Metrics) Hooks() domain.TraversalHooks {
	return domain.TraversalHooks{
		OnVisit: func(_ context.Context, ev *domain.TraversalEvent) {
			m.visits.WithLabelValues(string(ev.Kind)).Inc()
		},
		OnWrap: func(_ context.Context, ev *domain.TraversalEvent) {
			m.wraps.WithLabelValues(string(ev.Kind)).Inc()
			m.params.Add(float64(ev.Params))
		},
	}
}
