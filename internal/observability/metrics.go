package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "penguin_scatter"

// Metrics holds the Prometheus counters, histograms, and gauges for the scatter service.
type Metrics struct {
	// Dataset loading metrics.
	FetchAttempts *prometheus.CounterVec // labels: outcome={success,error}
	FetchDuration prometheus.Histogram
	RowsLoaded    prometheus.Gauge
	RowsRejected  prometheus.Gauge
	DatasetReady  prometheus.Gauge

	// Interaction and rendering metrics.
	HoverTransitions *prometheus.CounterVec // labels: kind={enter,exit}
	RenderDuration   prometheus.Histogram
	RenderCache      *prometheus.CounterVec // labels: result={hit,miss}
	HoverEvents      *prometheus.CounterVec // labels: outcome={published,error,dropped}

	HTTPRequests *prometheus.CounterVec // labels: route, method, status
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		FetchAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_fetch_attempts_total",
			Help:      "Dataset fetch attempts by outcome.",
		}, []string{"outcome"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dataset_fetch_duration_seconds",
			Help:      "Duration of a single dataset fetch attempt.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		RowsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_rows_loaded",
			Help:      "Rows in the current dataset.",
		}),
		RowsRejected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_rows_rejected",
			Help:      "Rows dropped from the current dataset because a numeric field was invalid.",
		}),
		DatasetReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_ready",
			Help:      "1 when a dataset is loaded, 0 while loading or failed.",
		}),
		HoverTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hover_transitions_total",
			Help:      "Hover state transitions by kind.",
		}, []string{"kind"}),
		RenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Duration of an uncached chart render.",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		}),
		RenderCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "render_cache_total",
			Help:      "Render cache lookups by result.",
		}, []string{"result"}),
		HoverEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hover_events_total",
			Help:      "Hover events sent to Kafka by outcome.",
		}, []string{"outcome"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern, method and status.",
		}, []string{"route", "method", "status"}),
	}

	prometheus.MustRegister(
		m.FetchAttempts,
		m.FetchDuration,
		m.RowsLoaded,
		m.RowsRejected,
		m.DatasetReady,
		m.HoverTransitions,
		m.RenderDuration,
		m.RenderCache,
		m.HoverEvents,
		m.HTTPRequests,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		FetchAttempts:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "dataset_fetch_attempts_total"}, []string{"outcome"}),
		FetchDuration:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: "dataset_fetch_duration_seconds"}),
		RowsLoaded:       prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "dataset_rows_loaded"}),
		RowsRejected:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "dataset_rows_rejected"}),
		DatasetReady:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "dataset_ready"}),
		HoverTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "hover_transitions_total"}, []string{"kind"}),
		RenderDuration:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: "render_duration_seconds"}),
		RenderCache:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "render_cache_total"}, []string{"result"}),
		HoverEvents:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "hover_events_total"}, []string{"outcome"}),
		HTTPRequests:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total"}, []string{"route", "method", "status"}),
	}
}
