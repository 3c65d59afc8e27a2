package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rickgao/pricing-board/internal/store"
)

const namespace = "pricing_board"

// Metrics holds every collector exported by the board.
type Metrics struct {
	registry *prometheus.Registry

	Messages          *prometheus.CounterVec
	EvictionRuns      prometheus.Counter
	EvictedRecords    prometheus.Counter
	StreamSubscribers prometheus.Gauge
	StreamDropped     prometheus.Counter
	HTTPRequests      *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
}

// New creates the collectors on a private registry together with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		Messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "messages_total",
			Help:      "Pipeline messages by vendor and outcome",
		}, []string{"vendor", "outcome"}),
		EvictionRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "eviction",
			Name:      "runs_total",
			Help:      "Completed eviction passes",
		}),
		EvictedRecords: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "eviction",
			Name:      "records_total",
			Help:      "Records removed by eviction",
		}),
		StreamSubscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "subscribers",
			Help:      "Connected stream subscribers",
		}),
		StreamDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "dropped_total",
			Help:      "Deliveries dropped because a subscriber queue was full",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Messages,
		m.EvictionRuns,
		m.EvictedRecords,
		m.StreamSubscribers,
		m.StreamDropped,
		m.HTTPRequests,
		m.HTTPDuration,
	)

	return m
}

// ObserveStore exports cache sizes read from stats on every scrape.
func (m *Metrics) ObserveStore(stats func() store.Stats) {
	gauge := func(name, help string, value func(store.Stats) int) prometheus.GaugeFunc {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      name,
			Help:      help,
		}, func() float64 { return float64(value(stats())) })
	}

	m.registry.MustRegister(
		gauge("instruments", "Instruments with at least one current price", func(s store.Stats) int { return s.Instruments }),
		gauge("vendors", "Vendors with at least one current price", func(s store.Stats) int { return s.Vendors }),
		gauge("records", "Current price records", func(s store.Stats) int { return s.Records }),
		gauge("date_buckets", "Dates held in the eviction index", func(s store.Stats) int { return s.DateBuckets }),
	)
}

// RecordMessage counts a pipeline outcome.
func (m *Metrics) RecordMessage(vendor, outcome string) {
	m.Messages.WithLabelValues(vendor, outcome).Inc()
}

// RecordEviction counts one eviction pass.
func (m *Metrics) RecordEviction(records int) {
	m.EvictionRuns.Inc()
	m.EvictedRecords.Add(float64(records))
}

// SubscriberAdded tracks a new stream subscriber.
func (m *Metrics) SubscriberAdded() { m.StreamSubscribers.Inc() }

// SubscriberRemoved tracks a departed stream subscriber.
func (m *Metrics) SubscriberRemoved() { m.StreamSubscribers.Dec() }

// DeliveryDropped counts a stream delivery skipped for a slow subscriber.
func (m *Metrics) DeliveryDropped() { m.StreamDropped.Inc() }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Gatherer exposes the registry, mainly for tests.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}
