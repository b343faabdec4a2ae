package monitoring

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics manages the Prometheus metrics.
type Metrics struct {
	DecisionsTotal      *prometheus.CounterVec
	DecisionLatency     prometheus.Histogram
	RejectionsTotal     prometheus.Counter
	ValidationErrors    prometheus.Counter
	ModelUnavailable    prometheus.Counter
	PersistenceFailures *prometheus.CounterVec
	ModelLoaded         prometheus.Gauge
	ModelReloads        *prometheus.CounterVec
	HTTPRequests        *prometheus.CounterVec
	HTTPDuration        *prometheus.HistogramVec
	RateLimitHits       *prometheus.CounterVec
	StatsCacheAccess    *prometheus.CounterVec
}

// NewMetrics creates the metrics and registers them with reg.
// Pass prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		DecisionsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credscore_decisions_total",
				Help: "Total number of credit decisions issued.",
			},
			[]string{"risk_level", "overridden"},
		),
		DecisionLatency: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "credscore_decision_latency_seconds",
				Help:    "End-to-end latency of the scoring pipeline.",
				Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
			},
		),
		RejectionsTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "credscore_rejections_total",
				Help: "Total number of applications rejected by business-rule validation.",
			},
		),
		ValidationErrors: f.NewCounter(
			prometheus.CounterOpts{
				Name: "credscore_validation_errors_total",
				Help: "Total number of individual validation errors raised.",
			},
		),
		ModelUnavailable: f.NewCounter(
			prometheus.CounterOpts{
				Name: "credscore_model_unavailable_total",
				Help: "Total number of requests refused because no scorecard was loaded.",
			},
		),
		PersistenceFailures: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credscore_persistence_failures_total",
				Help: "Total number of decisions that could not be written to a sink.",
			},
			[]string{"sink"},
		),
		ModelLoaded: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "credscore_model_loaded",
				Help: "1 when a scorecard is loaded, 0 otherwise.",
			},
		),
		ModelReloads: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credscore_model_reloads_total",
				Help: "Total number of scorecard load attempts.",
			},
			[]string{"result"},
		),
		HTTPRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credscore_http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "credscore_http_request_duration_seconds",
				Help:    "HTTP request latency.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		RateLimitHits: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credscore_rate_limit_hits_total",
				Help: "Total number of requests refused by the rate limiter.",
			},
			[]string{"scope"},
		),
		StatsCacheAccess: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credscore_stats_cache_access_total",
				Help: "Stats cache lookups by backend and result.",
			},
			[]string{"backend", "result"},
		),
	}
}

// RecordDecision records an issued decision.
func (m *Metrics) RecordDecision(riskLevel string, overridden bool, latency time.Duration) {
	m.DecisionsTotal.WithLabelValues(riskLevel, strconv.FormatBool(overridden)).Inc()
	m.DecisionLatency.Observe(latency.Seconds())
}

// RecordRejection records a validation rejection carrying n errors.
func (m *Metrics) RecordRejection(n int) {
	m.RejectionsTotal.Inc()
	m.ValidationErrors.Add(float64(n))
}

// RecordModelReload records a load attempt and updates the loaded gauge.
func (m *Metrics) RecordModelReload(loaded bool, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.ModelReloads.WithLabelValues(result).Inc()
	if loaded {
		m.ModelLoaded.Set(1)
	} else {
		m.ModelLoaded.Set(0)
	}
}

// RecordHTTPRequest records one served HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	m.HTTPRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordRateLimitHit records a rate limit hit.
func (m *Metrics) RecordRateLimitHit(scope string) {
	m.RateLimitHits.WithLabelValues(scope).Inc()
}

// RecordCacheAccess records a stats cache lookup.
func (m *Metrics) RecordCacheAccess(backend string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.StatsCacheAccess.WithLabelValues(backend, result).Inc()
}

//Personal.AI order the ending
