package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the prometheus instruments for one indexer instance. It is
// constructed once per process and injected, never accessed as package state.
type Metrics struct {
	EventsIngested         *prometheus.CounterVec
	MalformedEvents        prometheus.Counter
	EnqueueFailures        prometheus.Counter
	ReconciliationCycles   prometheus.Counter
	ItemsResolved          prometheus.Counter
	ItemsRequeued          prometheus.Counter
	PendingReconciliations prometheus.Gauge
}

// New registers the indexer metrics on the given registerer
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		EventsIngested: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_events_ingested_total",
			Help: "Normalized ledger events merged, by chain and event type",
		}, []string{"chain", "event_type"}),
		MalformedEvents: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_malformed_events_total",
			Help: "Events rejected at the ingestion boundary and dropped",
		}),
		EnqueueFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_reconciliation_enqueue_failures_total",
			Help: "Reconciliation enqueue attempts that failed after retries",
		}),
		ReconciliationCycles: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_reconciliation_cycles_total",
			Help: "Reconciliation cycles completed",
		}),
		ItemsResolved: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_reconciliation_items_resolved_total",
			Help: "Pending items removed after the completion check passed",
		}),
		ItemsRequeued: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_reconciliation_items_requeued_total",
			Help: "Pending items left in the queue for another cycle",
		}),
		PendingReconciliations: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ledger_pending_reconciliations",
			Help: "Pending reconciliation items observed at the last cycle",
		}),
	}
}

// NewDefault registers on the default prometheus registry
func NewDefault() *Metrics {
	return New(prometheus.DefaultRegisterer)
}
