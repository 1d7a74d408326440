// Package cache keeps computed month availability in Redis. A nil
// *MonthCache is valid and caches nothing.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type MonthCache struct {
	rdb *redis.Client
	ttl time.Duration
	log *zap.Logger
}

// Connect returns nil when addr is empty or Redis does not answer; the
// application then runs without caching.
func Connect(ctx context.Context, addr string, ttl time.Duration, log *zap.Logger) *MonthCache {
	if addr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("redis unreachable, availability caching disabled", zap.String("addr", addr), zap.Error(err))
		_ = rdb.Close()
		return nil
	}
	log.Info("redis connected", zap.String("addr", addr))
	return New(rdb, ttl, log)
}

func New(rdb *redis.Client, ttl time.Duration, log *zap.Logger) *MonthCache {
	return &MonthCache{rdb: rdb, ttl: ttl, log: log}
}

func Key(productID uint, year int, month time.Month) string {
	return fmt.Sprintf("availability:%d:%04d-%02d", productID, year, int(month))
}

// Get decodes a cached value into dst and reports whether it was found.
func (c *MonthCache) Get(ctx context.Context, productID uint, year int, month time.Month, dst any) bool {
	if c == nil {
		return false
	}
	raw, err := c.rdb.Get(ctx, Key(productID, year, month)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("cache read failed", zap.Uint("product_id", productID), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.log.Warn("cache entry undecodable", zap.Uint("product_id", productID), zap.Error(err))
		return false
	}
	return true
}

func (c *MonthCache) Set(ctx context.Context, productID uint, year int, month time.Month, v any) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, Key(productID, year, month), raw, c.ttl).Err(); err != nil {
		c.log.Warn("cache write failed", zap.Uint("product_id", productID), zap.Error(err))
	}
}

func (c *MonthCache) Invalidate(ctx context.Context, productID uint, year int, month time.Month) {
	if c == nil {
		return
	}
	if err := c.rdb.Del(ctx, Key(productID, year, month)).Err(); err != nil {
		c.log.Warn("cache invalidation failed", zap.Uint("product_id", productID), zap.Error(err))
	}
}

func (c *MonthCache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}
