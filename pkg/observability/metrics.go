package observability

import (
	"context"

	"github.com/aretw0/riseflow/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors fed by navigation hooks.
type Metrics struct {
	NodeVisits          *prometheus.CounterVec
	Navigations         *prometheus.CounterVec
	Searches            *prometheus.CounterVec
	PersistenceFailures *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		NodeVisits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "riseflow_node_visits_total",
				Help: "Total number of times a node became current",
			},
			[]string{"node_id"},
		),
		Navigations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "riseflow_navigation_total",
				Help: "Total number of navigation stack mutations",
			},
			[]string{"op"},
		),
		Searches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "riseflow_searches_total",
				Help: "Total number of search query changes",
			},
			[]string{"outcome"},
		),
		PersistenceFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "riseflow_persistence_failures_total",
				Help: "Total number of swallowed storage failures",
			},
			[]string{"op"},
		),
	}
	reg.MustRegister(m.NodeVisits, m.Navigations, m.Searches, m.PersistenceFailures)
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNavigate: func(_ context.Context, e *domain.NavigationEvent) {
			m.Navigations.WithLabelValues(string(e.Op)).Inc()
			m.NodeVisits.WithLabelValues(e.To).Inc()
		},
		OnSearch: func(_ context.Context, e *domain.SearchEvent) {
			m.Searches.WithLabelValues(SearchOutcome(e)).Inc()
		},
		OnPersistenceFailure: func(_ context.Context, e *domain.PersistenceEvent) {
			m.PersistenceFailures.WithLabelValues(e.Op).Inc()
		},
	}
}

// SearchOutcome classifies a search as "empty" (no terms), "miss" or "hit".
func SearchOutcome(e *domain.SearchEvent) string {
	switch {
	case e.Terms == 0:
		return "empty"
	case e.Results == 0:
		return "miss"
	default:
		return "hit"
	}
}
