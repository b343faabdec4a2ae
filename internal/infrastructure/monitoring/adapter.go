// Package monitoring provides adapters to connect the domain's metrics interface with a concrete implementation like Prometheus.
package monitoring

import (
	"context"
	"time"

	"github.com/turtacn/credscore/internal/domain/models"
	"github.com/turtacn/credscore/internal/domain/service"
)

// MetricsAdapter implements the domain's service.DecisionMetrics interface, sending metrics to a Prometheus backend.
// MetricsAdapter 实现了域的 service.DecisionMetrics 接口，将指标发送到 Prometheus 后端。
type MetricsAdapter struct {
	metrics *Metrics
}

// NewMetricsAdapter creates a new adapter that wraps a concrete Prometheus Metrics object.
func NewMetricsAdapter(metrics *Metrics) service.DecisionMetrics {
	return &MetricsAdapter{metrics: metrics}
}

// RecordDecision delegates the call to the underlying Prometheus Metrics object.
func (a *MetricsAdapter) RecordDecision(tier models.RiskTier, overridden bool, latencySeconds float64) {
	a.metrics.RecordDecision(string(tier), overridden, time.Duration(latencySeconds*float64(time.Second)))
}

// RecordRejection delegates the call to the underlying Prometheus Metrics object.
func (a *MetricsAdapter) RecordRejection(reasons int) {
	a.metrics.RecordRejection(reasons)
}

// RecordModelUnavailable delegates the call to the underlying Prometheus Metrics object.
func (a *MetricsAdapter) RecordModelUnavailable() {
	a.metrics.ModelUnavailable.Inc()
}

// RecordPersistenceFailure delegates the call to the underlying Prometheus Metrics object.
func (a *MetricsAdapter) RecordPersistenceFailure(sink string) {
	a.metrics.PersistenceFailures.WithLabelValues(sink).Inc()
}

// InstrumentedStatsCache counts hits and misses of a wrapped stats cache.
type InstrumentedStatsCache struct {
	inner   service.StatsCache
	backend string
	metrics *Metrics
}

// NewInstrumentedStatsCache wraps inner, labelling its lookups with backend.
func NewInstrumentedStatsCache(inner service.StatsCache, backend string, metrics *Metrics) service.StatsCache {
	return &InstrumentedStatsCache{inner: inner, backend: backend, metrics: metrics}
}

// GetStats records a hit or miss. Errors count as misses.
func (c *InstrumentedStatsCache) GetStats(ctx context.Context) (*models.DecisionStats, bool, error) {
	stats, ok, err := c.inner.GetStats(ctx)
	c.metrics.RecordCacheAccess(c.backend, ok && err == nil)
	return stats, ok, err
}

// SetStats passes through.
func (c *InstrumentedStatsCache) SetStats(ctx context.Context, stats *models.DecisionStats) error {
	return c.inner.SetStats(ctx, stats)
}
