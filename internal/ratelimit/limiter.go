// Package ratelimit counts requests per client IP and purpose in Redis using
// fixed windows.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter enforces at most max requests per IP and purpose within window.
type Limiter struct {
	client *redis.Client
	max    int64
	window time.Duration
}

func NewLimiter(client *redis.Client, max int, window time.Duration) *Limiter {
	return &Limiter{
		client: client,
		max:    int64(max),
		window: window,
	}
}

func rateLimitKey(ip, purpose string) string {
	return fmt.Sprintf("rate_limit:%s:%s", purpose, ip)
}

// AllowIPRequestWithPurpose counts one request and reports whether it is
// within the budget. The counter is created with the window's TTL and the
// increment runs in the same MULTI/EXEC, so a key never outlives its window
// and concurrent requests cannot overshoot the budget.
func (l *Limiter) AllowIPRequestWithPurpose(ctx context.Context, ip, purpose string) (bool, error) {
	key := rateLimitKey(ip, purpose)

	pipe := l.client.TxPipeline()
	pipe.SetNX(ctx, key, 0, l.window)
	incr := pipe.Incr(ctx, key)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to count request: %w", err)
	}

	return incr.Val() <= l.max, nil
}

// Disabled never limits. It is used when rate limiting is turned off.
type Disabled struct{}

func (Disabled) AllowIPRequestWithPurpose(context.Context, string, string) (bool, error) {
	return true, nil
}
