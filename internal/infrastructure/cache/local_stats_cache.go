// Package cache provides an in-process stats cache for single-replica deployments.
package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/turtacn/credscore/internal/domain/models"
	"github.com/turtacn/credscore/internal/domain/service"
)

const statsKey = "stats"

// LocalStatsCache keeps aggregate stats in memory with a TTL.
type LocalStatsCache struct {
	store *gocache.Cache
}

var _ service.StatsCache = (*LocalStatsCache)(nil)

// NewLocalStatsCache creates a cache whose entries expire after ttl and are purged every cleanupInterval.
func NewLocalStatsCache(ttl, cleanupInterval time.Duration) *LocalStatsCache {
	return &LocalStatsCache{store: gocache.New(ttl, cleanupInterval)}
}

// GetStats returns a copy of the cached stats.
func (c *LocalStatsCache) GetStats(_ context.Context) (*models.DecisionStats, bool, error) {
	v, ok := c.store.Get(statsKey)
	if !ok {
		return nil, false, nil
	}
	return copyStats(v.(*models.DecisionStats)), true, nil
}

// SetStats stores a copy of stats.
func (c *LocalStatsCache) SetStats(_ context.Context, stats *models.DecisionStats) error {
	c.store.SetDefault(statsKey, copyStats(stats))
	return nil
}

func copyStats(s *models.DecisionStats) *models.DecisionStats {
	out := *s
	out.ByRiskLevel = make(map[string]int64, len(s.ByRiskLevel))
	for k, v := range s.ByRiskLevel {
		out.ByRiskLevel[k] = v
	}
	return &out
}
