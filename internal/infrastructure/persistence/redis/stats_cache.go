package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/turtacn/credscore/internal/domain/models"
	"github.com/turtacn/credscore/internal/domain/service"
	"github.com/turtacn/credscore/pkg/constants"
)

// StatsCache shares aggregate stats across replicas.
type StatsCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

var _ service.StatsCache = (*StatsCache)(nil)

// NewStatsCache creates a cache whose entries expire after ttl.
func NewStatsCache(client redis.UniversalClient, ttl time.Duration) *StatsCache {
	return &StatsCache{client: client, ttl: ttl}
}

// GetStats returns the cached stats. A miss is (nil, false, nil).
func (c *StatsCache) GetStats(ctx context.Context) (*models.DecisionStats, bool, error) {
	val, err := c.client.Get(ctx, constants.StatsCacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var stats models.DecisionStats
	if err := json.Unmarshal(val, &stats); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached stats: %w", err)
	}
	if stats.ByRiskLevel == nil {
		stats.ByRiskLevel = make(map[string]int64)
	}
	return &stats, true, nil
}

// SetStats stores stats with the configured TTL.
func (c *StatsCache) SetStats(ctx context.Context, stats *models.DecisionStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, constants.StatsCacheKey, data, c.ttl).Err()
}
