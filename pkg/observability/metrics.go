package observability

import (
	"context"
	"strings"

	"github.com/aretw0/findsimulator/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors fed by lifecycle hooks.
type Metrics struct {
	Lookups           *prometheus.CounterVec
	Matches           *prometheus.HistogramVec
	InventoryDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Lookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "findsimulator_lookups_total",
				Help: "Total number of simulator lookups by outcome",
			},
			[]string{"lookup", "outcome"},
		),
		Matches: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "findsimulator_lookup_matches",
				Help:    "Number of devices returned per successful lookup",
				Buckets: []float64{1, 2, 5, 10, 20, 50},
			},
			[]string{"lookup"},
		),
		InventoryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "findsimulator_inventory_duration_seconds",
				Help:    "Duration of inventory fetches",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"catalog", "outcome"},
		),
	}
	reg.MustRegister(m.Lookups, m.Matches, m.InventoryDuration)
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnInventory: func(ctx context.Context, e *domain.InventoryEvent) {
			m.InventoryDuration.WithLabelValues(e.Catalog, Outcome(e.Err)).Observe(e.Duration.Seconds())
		},
		OnLookup: func(ctx context.Context, e *domain.LookupEvent) {
			m.Lookups.WithLabelValues(e.Lookup, Outcome(e.Err)).Inc()
			if e.Err == nil {
				m.Matches.WithLabelValues(e.Lookup).Observe(float64(e.Matches))
			}
		},
	}
}

// Outcome is the metric label for an error: "ok" or the error kind in snake case.
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return strings.ReplaceAll(domain.KindOf(err).String(), " ", "_")
}
