package util

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter is a fixed-window counter backed by Redis, used to cap how
// often a single user may invoke the assistant.
type RateLimiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
}

func NewRateLimiter(rdb *redis.Client, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{rdb: rdb, limit: limit, window: window}
}

// Allow increments the caller's window counter and reports whether the call
// is within the limit. If Redis is unavailable the call is allowed; the
// limiter protects a paid upstream, it is not a security boundary.
func (rl *RateLimiter) Allow(ctx context.Context, userID int) (bool, error) {
	key := fmt.Sprintf("ratelimit:assistant:%d", userID)

	count, err := rl.rdb.Incr(ctx, key).Result()
	if err != nil {
		return true, err
	}

	if count == 1 {
		rl.rdb.Expire(ctx, key, rl.window)
	}

	return count <= int64(rl.limit), nil
}
