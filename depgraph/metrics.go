package depgraph

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics is a thin Prometheus wrapper around a Tracker's drain activity,
// namespaced "depgraph_". It has no effect on propagation semantics; a
// Tracker built without WithMetrics simply skips every call into it.
type Metrics struct {
	eventsTotal     *prometheus.CounterVec
	pendingBatch    prometheus.Gauge
	drainDuration   prometheus.Histogram
	changeListSize  prometheus.Histogram
}

// NewMetrics registers depgraph's metrics with registry. Pass
// prometheus.DefaultRegisterer for the global registry, or a fresh
// prometheus.NewRegistry() for test isolation.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	return &Metrics{
		eventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "depgraph",
			Name:      "events_total",
			Help:      "Raw vertex/edge events observed by the listener domain",
		}, []string{"kind"}), // kind: vertex, edge

		pendingBatch: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "depgraph",
			Name:      "pending_batch_size",
			Help:      "Combined NodeList+EdgeList length of the current pending batch",
		}),

		drainDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "depgraph",
			Name:      "drain_duration_ms",
			Help:      "Wall-clock duration of a single Drain call, in milliseconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 50, 100, 500, 1000},
		}),

		changeListSize: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "depgraph",
			Name:      "changelist_size",
			Help:      "Number of entries appended to the ChangeList by a single drain",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100, 500},
		}),
	}
}

func (m *Metrics) recordEvent(kind string) {
	if m == nil {
		return
	}
	m.eventsTotal.WithLabelValues(kind).Inc()
}

func (m *Metrics) setPendingBatchSize(n int) {
	if m == nil {
		return
	}
	m.pendingBatch.Set(float64(n))
}

func (m *Metrics) recordDrain(d time.Duration, changeListSize int) {
	if m == nil {
		return
	}
	m.drainDuration.Observe(float64(d.Microseconds()) / 1000.0)
	m.changeListSize.Observe(float64(changeListSize))
}
