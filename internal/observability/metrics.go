package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// transform service.
type Metrics struct {
	RecordsProcessed   prometheus.Counter
	RecordsTransformed prometheus.Counter
	RecordsSkipped     *prometheus.CounterVec // label: reason={field missing,ambiguous multi-value,null value}
	ValidationErrors   prometheus.Counter

	// HTTP transform endpoint metrics.
	RequestsInFlight  prometheus.Gauge
	RequestDuration   prometheus.Histogram
	RecordsPerRequest prometheus.Histogram

	// Kafka pipeline metrics.
	MessagesConsumed        prometheus.Counter
	MessagesProduced        prometheus.Counter
	TransformErrors         prometheus.Counter
	PipelineRunning         prometheus.Gauge
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.RecordsProcessed,
		m.RecordsTransformed,
		m.RecordsSkipped,
		m.ValidationErrors,
		m.RequestsInFlight,
		m.RequestDuration,
		m.RecordsPerRequest,
		m.MessagesConsumed,
		m.MessagesProduced,
		m.TransformErrors,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics without touching the default registry
// to avoid "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RecordsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "utm_transform",
			Name:      "records_processed_total",
			Help:      "Total records read from any transport.",
		}),
		RecordsTransformed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "utm_transform",
			Name:      "records_transformed_total",
			Help:      "Total records augmented with latitude/longitude.",
		}),
		RecordsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "utm_transform",
			Name:      "records_skipped_total",
			Help:      "Total records passed through unmodified, by skip reason.",
		}, []string{"reason"}),
		ValidationErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "utm_transform",
			Name:      "validation_errors_total",
			Help:      "Total fatal validation failures.",
		}),
		RequestsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "utm_transform",
			Name:      "requests_in_flight",
			Help:      "Transform requests currently being served.",
		}),
		RequestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "utm_transform",
			Name:      "request_duration_seconds",
			Help:      "Duration of a complete transform request.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		RecordsPerRequest: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "utm_transform",
			Name:      "records_per_request",
			Help:      "Number of records per transform request.",
			Buckets:   []float64{1, 10, 50, 100, 500, 1000, 5000, 10000},
		}),
		MessagesConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "utm_transform",
			Name:      "messages_consumed_total",
			Help:      "Total messages read from the source topic.",
		}),
		MessagesProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "utm_transform",
			Name:      "messages_produced_total",
			Help:      "Total messages written to the sink topic.",
		}),
		TransformErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "utm_transform",
			Name:      "transform_errors_total",
			Help:      "Total per-message transformation failures in pipeline mode.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "utm_transform",
			Name:      "pipeline_running",
			Help:      "1 when the Kafka pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "utm_transform",
			Name:      "batch_size",
			Help:      "Number of messages per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "utm_transform",
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-transform-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
	}
}
