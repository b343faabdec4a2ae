package ratelimit

import (
	"context"
	"time"
)

// Result is the outcome of one limiter check.
type Result struct {
	Allowed    bool
	Limit      int64
	Remaining  int64
	RetryAfter time.Duration
}

// Limiter decides whether the client identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// LocalLimiter keeps one token bucket per key in process memory.
type LocalLimiter struct {
	pool *TokenBucketPool
}

// NewLocalLimiter refills rps tokens per second up to burst.
func NewLocalLimiter(rps float64, burst int) *LocalLimiter {
	return &LocalLimiter{
		pool: NewTokenBucketPool(TokenBucketConfig{Capacity: float64(burst), Rate: rps}),
	}
}

// Allow implements Limiter.
func (l *LocalLimiter) Allow(_ context.Context, key string) (Result, error) {
	bucket := l.pool.GetOrCreate(key)
	ok, left, wait := bucket.take(1)
	res := Result{Allowed: ok, Limit: int64(bucket.Capacity()), Remaining: int64(left)}
	if !ok {
		res.Remaining = 0
		res.RetryAfter = wait
	}
	return res, nil
}

// Cleanup drops buckets idle for longer than maxIdle.
func (l *LocalLimiter) Cleanup(maxIdle time.Duration) int {
	return l.pool.Cleanup(maxIdle)
}

// RunCleanup periodically drops idle buckets until ctx is done.
func (l *LocalLimiter) RunCleanup(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Cleanup(maxIdle)
		}
	}
}
