// Package cache provides an optional Redis-backed read-through cache
// for dashboard aggregates. A nil *Cache is valid and disables caching.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"fintrack/internal/dashboard"
	"fintrack/internal/logger"
)

// statsTTL keeps dashboard payloads fresh enough that a cache miss
// after mutation invalidation is the common path anyway.
const statsTTL = time.Minute

// Cache wraps a Redis client for dashboard stats.
type Cache struct {
	rdb *redis.Client
}

// New connects to Redis at addr. An empty addr returns nil, which every
// method treats as a disabled cache.
func New(addr, password string) *Cache {
	if addr == "" {
		return nil
	}
	return &Cache{rdb: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})}
}

func statsKey(userID string, year, month int) string {
	return fmt.Sprintf("dashboard:%s:%04d-%02d", userID, year, month)
}

// GetStats returns the cached stats for a user's month, if present.
func (c *Cache) GetStats(ctx context.Context, userID string, year, month int) (*dashboard.PeriodStats, bool) {
	if c == nil {
		return nil, false
	}
	data, err := c.rdb.Get(ctx, statsKey(userID, year, month)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Get().Warnw("dashboard cache read failed", "error", err)
		}
		return nil, false
	}
	var stats dashboard.PeriodStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, false
	}
	return &stats, true
}

// SetStats stores a month's stats with a short TTL. Failures are
// logged and ignored; the cache is best effort.
func (c *Cache) SetStats(ctx context.Context, userID string, stats *dashboard.PeriodStats) {
	if c == nil {
		return
	}
	data, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, statsKey(userID, stats.Year, stats.Month), data, statsTTL).Err(); err != nil {
		logger.Get().Warnw("dashboard cache write failed", "error", err)
	}
}

// InvalidateUser drops every cached month for a user. Called after any
// transaction, category, or profile mutation.
func (c *Cache) InvalidateUser(ctx context.Context, userID string) {
	if c == nil {
		return
	}
	pattern := fmt.Sprintf("dashboard:%s:*", userID)
	iter := c.rdb.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			logger.Get().Warnw("dashboard cache invalidation failed", "key", iter.Val(), "error", err)
		}
	}
	if err := iter.Err(); err != nil {
		logger.Get().Warnw("dashboard cache scan failed", "error", err)
	}
}

// Close releases the underlying Redis connection.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}
