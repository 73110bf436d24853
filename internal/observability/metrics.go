package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "boss_tracker"

// Refresh outcomes used as the "outcome" label of RefreshTotal.
const (
	OutcomeSuccess    = "success"
	OutcomeFetchError = "fetch_error"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the tracker.
type Metrics struct {
	RefreshTotal       *prometheus.CounterVec // labels: trigger={timer,manual,startup}, outcome={success,fetch_error}
	RefreshDuration    prometheus.Histogram
	LastRefreshSuccess prometheus.Gauge // unix seconds
	EventsLoaded       prometheus.Gauge
	RowsDropped        prometheus.Counter

	Queries *prometheus.CounterVec // labels: op={ready,next,find,list}

	// Status publishing metrics.
	SnapshotsPublished prometheus.Counter
	PublishErrors      prometheus.Counter
}

// NewMetrics creates and registers all tracker metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RefreshTotal,
		m.RefreshDuration,
		m.LastRefreshSuccess,
		m.EventsLoaded,
		m.RowsDropped,
		m.Queries,
		m.SnapshotsPublished,
		m.PublishErrors,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RefreshTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refresh_total",
			Help:      "Sheet refresh attempts by trigger and outcome.",
		}, []string{"trigger", "outcome"}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "refresh_duration_seconds",
			Help:      "Duration of a fetch and rebuild of the event set.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		}),
		LastRefreshSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_refresh_success_timestamp_seconds",
			Help:      "Unix time of the last successful refresh.",
		}),
		EventsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "events_loaded",
			Help:      "Number of bosses in the current event set.",
		}),
		RowsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_dropped_total",
			Help:      "Sheet rows discarded for having too few columns.",
		}),
		Queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Queries served by operation.",
		}, []string{"op"}),
		SnapshotsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshots_published_total",
			Help:      "Status messages written to the sink topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Failed status snapshot publishes.",
		}),
	}
}
