package util

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Deduper struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewDeduper(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *Deduper {
	return &Deduper{
		rdb:    rdb,
		ttl:    ttl,
		logger: logger,
	}
}

// AcquireOnce tries to acquire a dedup lock for a handler + task pair.
// Returns true if this is the first time the event is processed, false on a
// duplicate. When Redis is unavailable processing is allowed through rather
// than dropped.
func (d *Deduper) AcquireOnce(ctx context.Context, handler string, taskID string) bool {
	key := fmt.Sprintf("dedup:%s:%s", handler, taskID)

	ok, err := d.rdb.SetNX(ctx, key, 1, d.ttl).Result()
	if err != nil {
		if d.logger != nil {
			d.logger.Warn("Redis dedup check failed, allowing processing",
				zap.String("handler", handler),
				zap.String("task_id", taskID),
				zap.Error(err),
			)
		}
		return true
	}

	if !ok && d.logger != nil {
		d.logger.Info("Skipped duplicated event",
			zap.String("handler", handler),
			zap.String("task_id", taskID),
			zap.String("dedup_key", key),
		)
	}

	return ok
}
