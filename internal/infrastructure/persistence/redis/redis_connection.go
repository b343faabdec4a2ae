// Package redis provides the Redis connection and the shared stats cache.
package redis

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/turtacn/credscore/internal/config"
	"github.com/turtacn/credscore/pkg/logger"
)

const (
	defaultPoolSize    = 10
	defaultDialTimeout = 5 * time.Second
	defaultIOTimeout   = 3 * time.Second
)

// RedisConnection 共享 Redis 客户端，供统计缓存与分布式限流使用。
type RedisConnection struct {
	client redis.UniversalClient
	addr   string
	logger logger.Logger
}

// NewRedisConnection dials cfg and fails if the server does not answer a ping.
func NewRedisConnection(ctx context.Context, cfg *config.RedisConfig, log logger.Logger) (*RedisConnection, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis config is required")
	}
	opts := clientOptions(cfg)
	rc := NewRedisConnectionFromClient(redis.NewClient(opts), log)
	rc.addr = opts.Addr

	pingCtx, cancel := context.WithTimeout(ctx, defaultDialTimeout)
	defer cancel()
	if err := rc.client.Ping(pingCtx).Err(); err != nil {
		_ = rc.client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	rc.logger.Info(ctx, "Redis connected",
		logger.String("addr", rc.addr),
		logger.Int("db", cfg.DB),
		logger.Int("pool_size", opts.PoolSize),
	)
	return rc, nil
}

func clientOptions(cfg *config.RedisConfig) *redis.Options {
	size := cfg.PoolSize
	if size <= 0 {
		size = defaultPoolSize
	}
	return &redis.Options{
		Addr:         net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     size,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  defaultDialTimeout,
		ReadTimeout:  defaultIOTimeout,
		WriteTimeout: defaultIOTimeout,
	}
}

// NewRedisConnectionFromClient wraps an existing client, e.g. one pointed at miniredis.
func NewRedisConnectionFromClient(client redis.UniversalClient, log logger.Logger) *RedisConnection {
	if log == nil {
		log = logger.NewNoopLogger()
	}
	return &RedisConnection{client: client, logger: log.WithComponent("redis")}
}

// GetClient returns the underlying client.
func (rc *RedisConnection) GetClient() redis.UniversalClient {
	return rc.client
}

// Ping satisfies the readiness dependency contract.
func (rc *RedisConnection) Ping(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}

// HealthCheck 返回连通性、延迟与连接池统计
func (rc *RedisConnection) HealthCheck(ctx context.Context) (map[string]interface{}, error) {
	began := time.Now()
	err := rc.client.Ping(ctx).Err()
	info := map[string]interface{}{
		"connected":  err == nil,
		"latency_ms": time.Since(began).Milliseconds(),
	}
	if err != nil {
		info["error"] = err.Error()
		return info, err
	}
	ps := rc.client.PoolStats()
	info["total_conns"] = ps.TotalConns
	info["idle_conns"] = ps.IdleConns
	info["pool_timeouts"] = ps.Timeouts
	return info, nil
}

// Close releases pooled connections.
func (rc *RedisConnection) Close() error {
	err := rc.client.Close()
	if err != nil {
		rc.logger.Error(context.Background(), "Redis close failed", err)
	}
	return err
}
