package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/credscore/internal/config"
	"github.com/turtacn/credscore/internal/domain/models"
	"github.com/turtacn/credscore/pkg/constants"
)

func setupMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestStatsCache_RoundTripAndExpiry(t *testing.T) {
	mr, client := setupMiniredis(t)
	cache := NewStatsCache(client, 30*time.Second)
	ctx := context.Background()

	_, ok, err := cache.GetStats(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	stats := &models.DecisionStats{
		TotalPredictions: 4,
		ByRiskLevel:      map[string]int64{"Low": 3, "High": 1},
		AvgCreditScore:   571.25,
		Last24h:          2,
	}
	require.NoError(t, cache.SetStats(ctx, stats))
	assert.Equal(t, 30*time.Second, mr.TTL(constants.StatsCacheKey))

	got, ok, err := cache.GetStats(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, stats, got)

	mr.FastForward(31 * time.Second)
	_, ok, err = cache.GetStats(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStatsCache_CorruptEntry(t *testing.T) {
	mr, client := setupMiniredis(t)
	require.NoError(t, mr.Set(constants.StatsCacheKey, "not-json"))

	_, ok, err := NewStatsCache(client, time.Minute).GetStats(context.Background())
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestStatsCache_ServerDown(t *testing.T) {
	mr, client := setupMiniredis(t)
	mr.Close()

	_, _, err := NewStatsCache(client, time.Minute).GetStats(context.Background())
	assert.Error(t, err)
}

func TestRedisConnection(t *testing.T) {
	mr := miniredis.RunT(t)
	port := mr.Server().Addr().Port

	conn, err := NewRedisConnection(context.Background(), &config.RedisConfig{
		Enabled: true,
		Host:    mr.Host(),
		Port:    port,
	}, nil)
	require.NoError(t, err)

	require.NoError(t, conn.Ping(context.Background()))
	health, err := conn.HealthCheck(context.Background())
	require.NoError(t, err)
	assert.Equal(t, true, health["connected"])
	assert.NotNil(t, conn.GetClient())
	assert.NoError(t, conn.Close())
}

func TestNewRedisConnection_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port := mr.Host(), mr.Server().Addr().Port
	mr.Close()

	_, err := NewRedisConnection(context.Background(), &config.RedisConfig{Host: host, Port: port}, nil)
	assert.ErrorContains(t, err, "redis ping failed")
}

func TestRedisConnectionFromClient_HealthCheckReportsDown(t *testing.T) {
	mr := miniredis.RunT(t)
	conn := NewRedisConnectionFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), nil)
	require.NoError(t, conn.Ping(context.Background()))

	mr.Close()
	health, err := conn.HealthCheck(context.Background())
	assert.Error(t, err)
	assert.Equal(t, false, health["connected"])
	assert.NotEmpty(t, health["error"])
	_ = conn.Close()
}
