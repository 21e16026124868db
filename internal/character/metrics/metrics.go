package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Load outcomes.
const (
	LoadDefault = "default"
	LoadMerged  = "merged"
	LoadCorrupt = "corrupt"
)

// Metrics provides observability for the character document store.
type Metrics struct {
	// Edits applied, by operation
	Mutations *prometheus.CounterVec

	// Durable writes and how long they took
	PersistWrites   prometheus.Counter
	PersistFailures prometheus.Counter
	PersistLatency  prometheus.Histogram

	// Load outcome: default, merged, corrupt
	Loads *prometheus.CounterVec
}

// New registers the character metrics with reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		Mutations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "grimoire_character_mutations_total",
			Help: "Total record mutations by operation",
		}, []string{"op"}), // op: "set_field", "add_entry", "merge_header"

		PersistWrites: f.NewCounter(prometheus.CounterOpts{
			Name: "grimoire_character_persist_writes_total",
			Help: "Total full-record writes to durable storage",
		}),
		PersistFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "grimoire_character_persist_failures_total",
			Help: "Total durable writes that failed",
		}),
		PersistLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "grimoire_character_persist_duration_seconds",
			Help:    "Duration of full-record durable writes",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
		}),

		Loads: f.NewCounterVec(prometheus.CounterOpts{
			Name: "grimoire_character_loads_total",
			Help: "Total record loads by outcome",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) IncrementMutation(op string) {
	if m != nil {
		m.Mutations.WithLabelValues(op).Inc()
	}
}

// ObservePersist records one durable write and whether it failed.
func (m *Metrics) ObservePersist(d time.Duration, err error) {
	if m == nil {
		return
	}
	m.PersistWrites.Inc()
	m.PersistLatency.Observe(d.Seconds())
	if err != nil {
		m.PersistFailures.Inc()
	}
}

func (m *Metrics) IncrementLoad(outcome string) {
	if m != nil {
		m.Loads.WithLabelValues(outcome).Inc()
	}
}
