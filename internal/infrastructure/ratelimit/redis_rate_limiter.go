package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/turtacn/credscore/pkg/constants"
	"github.com/turtacn/credscore/pkg/logger"
)

// tokenBucketScript refills and consumes atomically. Rate is per second, timestamps in ms.
var tokenBucketScript = redis.NewScript(`
local key = KEYS[1]
local capacity = tonumber(ARGV[1])
local rate = tonumber(ARGV[2])
local requested = tonumber(ARGV[3])
local now = tonumber(ARGV[4])

local bucket = redis.call('HMGET', key, 'tokens', 'last_refill')
local tokens = tonumber(bucket[1]) or capacity
local last_refill = tonumber(bucket[2]) or now

local elapsed = math.max(0, now - last_refill)
tokens = math.min(tokens + elapsed * rate / 1000, capacity)

local allowed = 0
if tokens >= requested then
    tokens = tokens - requested
    allowed = 1
end

local wait_ms = 0
if allowed == 0 then
    wait_ms = math.ceil((requested - tokens) / rate * 1000)
end
local full_ms = math.ceil((capacity - tokens) / rate * 1000)

redis.call('HSET', key, 'tokens', tostring(tokens), 'last_refill', now)
redis.call('PEXPIRE', key, full_ms + 60000)

return {allowed, math.floor(tokens), wait_ms}
`)

// RedisRateLimiter shares token buckets across replicas. Redis failures fall back to a local pool.
type RedisRateLimiter struct {
	client    redis.UniversalClient
	logger    logger.Logger
	capacity  int64
	rate      float64
	keyPrefix string
	fallback  *LocalLimiter
	now       func() time.Time
}

// NewRedisRateLimiter refills rps tokens per second up to burst for each key.
func NewRedisRateLimiter(client redis.UniversalClient, rps float64, burst int, log logger.Logger) (*RedisRateLimiter, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if rps <= 0 || burst <= 0 {
		return nil, fmt.Errorf("rate limit rps and burst must be positive")
	}
	if log == nil {
		log = logger.NewNoopLogger()
	}

	rl := &RedisRateLimiter{
		client:    client,
		logger:    log.WithComponent("RedisRateLimiter"),
		capacity:  int64(burst),
		rate:      rps,
		keyPrefix: constants.RateLimitKeyPrefix,
		fallback:  NewLocalLimiter(rps, burst),
		now:       time.Now,
	}

	rl.logger.Info(context.Background(), "Redis rate limiter initialized",
		logger.Float64("rps", rps),
		logger.Int("burst", burst),
	)
	return rl, nil
}

// Allow implements Limiter.
func (rl *RedisRateLimiter) Allow(ctx context.Context, key string) (Result, error) {
	res, err := rl.eval(ctx, rl.buildKey(key))
	if err != nil {
		rl.logger.Warn(ctx, "Redis rate limit check failed, using local bucket",
			logger.Err(err), logger.String("key", key))
		return rl.fallback.Allow(ctx, key)
	}
	return res, nil
}

// Reset clears the shared bucket for key.
func (rl *RedisRateLimiter) Reset(ctx context.Context, key string) error {
	rl.fallback.pool.Remove(key)
	return rl.client.Del(ctx, rl.buildKey(key)).Err()
}

func (rl *RedisRateLimiter) eval(ctx context.Context, redisKey string) (Result, error) {
	raw, err := tokenBucketScript.Run(ctx, rl.client, []string{redisKey},
		rl.capacity, rl.rate, 1, rl.now().UnixMilli()).Int64Slice()
	if err != nil {
		return Result{}, err
	}
	if len(raw) < 3 {
		return Result{}, fmt.Errorf("invalid rate limit script result")
	}

	return Result{
		Allowed:    raw[0] == 1,
		Limit:      rl.capacity,
		Remaining:  raw[1],
		RetryAfter: time.Duration(raw[2]) * time.Millisecond,
	}, nil
}

func (rl *RedisRateLimiter) buildKey(key string) string {
	return fmt.Sprintf("%s:%s", rl.keyPrefix, key)
}

//Personal.AI order the ending
