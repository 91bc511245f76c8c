package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// FixedWindowLimiter counts hits per key in fixed windows.
// Key format: rl:<key>:<window start unix>
type FixedWindowLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
	now    func() time.Time
}

// NewFixedWindowLimiter allows limit hits per key in every window.
func NewFixedWindowLimiter(client *redis.Client, limit int, window time.Duration) *FixedWindowLimiter {
	return &FixedWindowLimiter{client: client, limit: int64(limit), window: window, now: time.Now}
}

// Allow records one hit for key. When the limit is exceeded it returns false
// and how long until the current window closes.
func (l *FixedWindowLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	now := l.now()
	start := now.Truncate(l.window)
	k := fmt.Sprintf("rl:%s:%d", key, start.Unix())

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, 0, fmt.Errorf("rate limit: %w", err)
	}

	if incr.Val() > l.limit {
		return false, start.Add(l.window).Sub(now), nil
	}
	return true, 0, nil
}
