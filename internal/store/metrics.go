package store

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Mutation outcomes recorded by planu_store_mutations_total.
const (
	outcomeCommitted = "committed"
	outcomeNoop      = "noop"
	outcomeFailed    = "failed"
)

// metrics holds the store collectors. A nil *metrics records nothing.
type metrics struct {
	mutations       *prometheus.CounterVec
	persistDuration prometheus.Histogram
	queueDepth      prometheus.Gauge
	reseeds         prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	if reg == nil {
		return nil
	}
	m := &metrics{
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "planu",
			Subsystem: "store",
			Name:      "mutations_total",
			Help:      "Mutations processed by the store, by outcome",
		}, []string{"outcome"}),
		persistDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "planu",
			Subsystem: "store",
			Name:      "persist_duration_seconds",
			Help:      "Time spent saving the snapshot",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}),
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "planu",
			Subsystem: "store",
			Name:      "queue_depth",
			Help:      "Mutations waiting to be accepted by the store worker",
		}),
		reseeds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "planu",
			Subsystem: "store",
			Name:      "reseeds_total",
			Help:      "Times the snapshot was replaced with seed data",
		}),
	}
	reg.MustRegister(m.mutations, m.persistDuration, m.queueDepth, m.reseeds)
	return m
}

func (m *metrics) mutation(outcome string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(outcome).Inc()
}

func (m *metrics) persisted(d time.Duration) {
	if m == nil {
		return
	}
	m.persistDuration.Observe(d.Seconds())
}

func (m *metrics) enqueued() {
	if m == nil {
		return
	}
	m.queueDepth.Inc()
}

func (m *metrics) dequeued() {
	if m == nil {
		return
	}
	m.queueDepth.Dec()
}

func (m *metrics) reseeded() {
	if m == nil {
		return
	}
	m.reseeds.Inc()
}
