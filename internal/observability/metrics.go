package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the feed.
type Metrics struct {
	RunsTotal        prometheus.Counter
	RunFailures      prometheus.Counter
	RunDuration      prometheus.Histogram
	SubmissionsTotal prometheus.Counter

	FeaturesEmitted prometheus.Counter
	LastRunFeatures prometheus.Gauge

	// Per-region degradation metrics.
	RegionsSkipped    *prometheus.CounterVec // labels: reason={region_fetch,no_forecast,panic}
	GeometryFallbacks prometheus.Counter

	// Upstream advisory API metrics.
	UpstreamRequests    *prometheus.CounterVec   // labels: resource={region,forecast}, outcome={success,error}
	UpstreamAPIDuration *prometheus.HistogramVec // labels: resource={region,forecast}
}

// NewMetrics creates and registers all feed metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RunsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "avalanche_feed",
			Name:      "runs_total",
			Help:      "Total feed runs started.",
		}),
		RunFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "avalanche_feed",
			Name:      "run_failures_total",
			Help:      "Total feed runs that failed before submitting.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "avalanche_feed",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete fetch-normalize-submit run.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		SubmissionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "avalanche_feed",
			Name:      "submissions_total",
			Help:      "Total feature collections published to the sink topic.",
		}),
		FeaturesEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "avalanche_feed",
			Name:      "features_emitted_total",
			Help:      "Total features emitted across all runs.",
		}),
		LastRunFeatures: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "avalanche_feed",
			Name:      "last_run_features",
			Help:      "Feature count of the most recent submitted collection.",
		}),
		RegionsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "avalanche_feed",
			Name:      "regions_skipped_total",
			Help:      "Regions that contributed zero features, by reason.",
		}, []string{"reason"}),
		GeometryFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "avalanche_feed",
			Name:      "geometry_fallbacks_total",
			Help:      "Regions rendered point-only because boundary geometry failed to parse.",
		}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "avalanche_feed",
			Name:      "upstream_requests_total",
			Help:      "Advisory API requests by resource and outcome.",
		}, []string{"resource", "outcome"}),
		UpstreamAPIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "avalanche_feed",
			Name:      "upstream_api_duration_seconds",
			Help:      "Advisory API request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"resource"}),
	}

	prometheus.MustRegister(
		m.RunsTotal,
		m.RunFailures,
		m.RunDuration,
		m.SubmissionsTotal,
		m.FeaturesEmitted,
		m.LastRunFeatures,
		m.RegionsSkipped,
		m.GeometryFallbacks,
		m.UpstreamRequests,
		m.UpstreamAPIDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics with unregistered collectors to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RunsTotal:           prometheus.NewCounter(prometheus.CounterOpts{Namespace: "avalanche_feed", Name: "runs_total"}),
		RunFailures:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "avalanche_feed", Name: "run_failures_total"}),
		RunDuration:         prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "avalanche_feed", Name: "run_duration_seconds"}),
		SubmissionsTotal:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "avalanche_feed", Name: "submissions_total"}),
		FeaturesEmitted:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "avalanche_feed", Name: "features_emitted_total"}),
		LastRunFeatures:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "avalanche_feed", Name: "last_run_features"}),
		RegionsSkipped:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "avalanche_feed", Name: "regions_skipped_total"}, []string{"reason"}),
		GeometryFallbacks:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "avalanche_feed", Name: "geometry_fallbacks_total"}),
		UpstreamRequests:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "avalanche_feed", Name: "upstream_requests_total"}, []string{"resource", "outcome"}),
		UpstreamAPIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "avalanche_feed", Name: "upstream_api_duration_seconds"}, []string{"resource"}),
	}
}
