// Package ratelimit provides per-client token bucket limiting, in process or shared through Redis.
package ratelimit

import (
	"math"
	"sync"
	"time"

	"github.com/turtacn/credscore/pkg/constants"
)

// TokenBucket 单个客户端的令牌桶，并发安全。
type TokenBucket struct {
	mu       sync.Mutex
	burst    float64
	perSec   float64
	level    float64
	stamp    time.Time
	lastSeen time.Time
	now      func() time.Time
}

// TokenBucketConfig sizes the buckets a pool creates.
type TokenBucketConfig struct {
	Capacity float64 // 桶容量 (burst)
	Rate     float64 // 每秒补充的令牌数
}

// NewTokenBucket returns a full bucket.
func NewTokenBucket(capacity, rate float64) *TokenBucket {
	return newTokenBucket(capacity, rate, time.Now)
}

func newTokenBucket(capacity, rate float64, now func() time.Time) *TokenBucket {
	if capacity <= 0 {
		capacity = float64(constants.DefaultRateLimitPerMinute)
	}
	if rate <= 0 {
		rate = capacity / 60.0
	}
	t := now()
	return &TokenBucket{burst: capacity, perSec: rate, level: capacity, stamp: t, lastSeen: t, now: now}
}

// take 在一次加锁内完成补充与扣减，返回剩余令牌数与下一次可用前的等待时间。
func (tb *TokenBucket) take(n float64) (ok bool, left float64, wait time.Duration) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	t := tb.now()
	tb.level = math.Min(tb.burst, tb.level+t.Sub(tb.stamp).Seconds()*tb.perSec)
	tb.stamp = t
	tb.lastSeen = t

	if n > 0 && tb.level >= n {
		tb.level -= n
		ok = true
	}
	if short := n - tb.level; short > 0 && !ok {
		wait = time.Duration(short / tb.perSec * float64(time.Second))
	}
	return ok, tb.level, wait
}

// Allow consumes one token.
func (tb *TokenBucket) Allow() bool {
	ok, _, _ := tb.take(1)
	return ok
}

// Available reports the current level after refill.
func (tb *TokenBucket) Available() float64 {
	_, left, _ := tb.take(0)
	return left
}

// TimeUntilAvailable reports how long until n tokens can be taken.
func (tb *TokenBucket) TimeUntilAvailable(n float64) time.Duration {
	tb.mu.Lock()
	t := tb.now()
	level := math.Min(tb.burst, tb.level+t.Sub(tb.stamp).Seconds()*tb.perSec)
	tb.mu.Unlock()
	if level >= n {
		return 0
	}
	return time.Duration((n - level) / tb.perSec * float64(time.Second))
}

// Capacity returns the burst size.
func (tb *TokenBucket) Capacity() float64 {
	return tb.burst
}

func (tb *TokenBucket) idleSince(t time.Time) time.Duration {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return t.Sub(tb.lastSeen)
}

// ==================== 令牌桶池 ====================

// TokenBucketPool 按客户端标识(通常为 IP)维护令牌桶。
type TokenBucketPool struct {
	mu      sync.Mutex
	buckets map[string]*TokenBucket
	config  TokenBucketConfig
	now     func() time.Time
}

// NewTokenBucketPool creates an empty pool.
func NewTokenBucketPool(config TokenBucketConfig) *TokenBucketPool {
	return &TokenBucketPool{buckets: map[string]*TokenBucket{}, config: config, now: time.Now}
}

// GetOrCreate returns the bucket for key, creating a full one on first use.
func (p *TokenBucketPool) GetOrCreate(key string) *TokenBucket {
	p.mu.Lock()
	defer p.mu.Unlock()

	b, ok := p.buckets[key]
	if !ok {
		b = newTokenBucket(p.config.Capacity, p.config.Rate, p.now)
		p.buckets[key] = b
		return b
	}
	b.mu.Lock()
	b.lastSeen = p.now()
	b.mu.Unlock()
	return b
}

// Remove forgets key.
func (p *TokenBucketPool) Remove(key string) {
	p.mu.Lock()
	delete(p.buckets, key)
	p.mu.Unlock()
}

// Cleanup 清理空闲超过 maxIdle 的桶，返回清理数量。
func (p *TokenBucketPool) Cleanup(maxIdle time.Duration) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	t := p.now()
	n := 0
	for key, b := range p.buckets {
		if b.idleSince(t) > maxIdle {
			delete(p.buckets, key)
			n++
		}
	}
	return n
}

// Size returns the number of tracked keys.
func (p *TokenBucketPool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.buckets)
}

//Personal.AI order the ending
