package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusExporter exports metrics to Prometheus format.
type PrometheusExporter struct {
	collector *Collector

	// Prometheus metrics
	cacheHitRate   prometheus.Gauge
	cacheKeys      prometheus.Gauge
	cacheHits      prometheus.Gauge
	cacheMisses    prometheus.Gauge
	cacheEvictions prometheus.Gauge
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	httpErrors     *prometheus.CounterVec
}

// NewPrometheusExporter creates a new Prometheus exporter.
func NewPrometheusExporter(collector *Collector) *PrometheusExporter {
	return &PrometheusExporter{
		collector: collector,
		cacheHitRate: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "tsunagari_profile_cache_hit_rate",
			Help: "Current profile cache hit rate (0.0 to 1.0)",
		}),
		cacheKeys: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "tsunagari_profile_cache_keys_current",
			Help: "Current number of keys in the profile cache",
		}),
		cacheHits: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "tsunagari_profile_cache_hits",
			Help: "Number of profile cache hits since start",
		}),
		cacheMisses: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "tsunagari_profile_cache_misses",
			Help: "Number of profile cache misses since start",
		}),
		cacheEvictions: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "tsunagari_profile_cache_evictions",
			Help: "Number of profile cache evictions since start",
		}),
		httpRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tsunagari_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path"},
		),
		httpDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tsunagari_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 10.0},
			},
			[]string{"method", "path"},
		),
		httpErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tsunagari_http_errors_total",
				Help: "Total number of HTTP requests answered with a 5xx status",
			},
			[]string{"method", "path"},
		),
	}
}

// Update refreshes cache gauges from the collector. Request counters are
// updated per request by the middleware; this should be called
// periodically (e.g., every 10 seconds).
func (e *PrometheusExporter) Update() {
	cacheMetrics := e.collector.GetCacheMetrics()
	e.cacheHitRate.Set(cacheMetrics.HitRate)
	e.cacheKeys.Set(float64(cacheMetrics.KeysCurrent))
	e.cacheHits.Set(float64(cacheMetrics.Hits))
	e.cacheMisses.Set(float64(cacheMetrics.Misses))
	e.cacheEvictions.Set(float64(cacheMetrics.Evictions))
}

// RecordRequest records a request in Prometheus.
func (e *PrometheusExporter) RecordRequest(method, path string) {
	e.httpRequests.WithLabelValues(method, path).Inc()
}

// RecordDuration records a duration in Prometheus.
func (e *PrometheusExporter) RecordDuration(method, path string, durationSeconds float64) {
	e.httpDuration.WithLabelValues(method, path).Observe(durationSeconds)
}

// RecordError records a 5xx response in Prometheus.
func (e *PrometheusExporter) RecordError(method, path string) {
	e.httpErrors.WithLabelValues(method, path).Inc()
}
