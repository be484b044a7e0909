package title

import (
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache remembers AI extraction results by raw title.
type Cache interface {
	Get(ctx context.Context, raw string) (AIResult, bool)
	Set(ctx context.Context, raw string, res AIResult)
}

// RedisCache stores AI results as JSON under "<prefix>:<sha1(raw)>".
// Redis errors are treated as misses.
type RedisCache struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache returns a cache backed by rdb. A nil client yields a nil
// cache so callers can pass the result straight to NewAIExtractor.
func NewRedisCache(rdb *redis.Client, prefix string, ttl time.Duration) Cache {
	if rdb == nil {
		return nil
	}
	if prefix == "" {
		prefix = "title"
	}
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &RedisCache{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (c *RedisCache) key(raw string) string {
	sum := sha1.Sum([]byte(raw))
	return fmt.Sprintf("%s:%x", c.prefix, sum[:])
}

// Get implements Cache.
func (c *RedisCache) Get(ctx context.Context, raw string) (AIResult, bool) {
	bs, err := c.rdb.Get(ctx, c.key(raw)).Bytes()
	if err != nil {
		return AIResult{}, false
	}
	var res AIResult
	if err := json.Unmarshal(bs, &res); err != nil {
		return AIResult{}, false
	}
	return res, true
}

// Set implements Cache.
func (c *RedisCache) Set(ctx context.Context, raw string, res AIResult) {
	bs, err := json.Marshal(res)
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, c.key(raw), bs, c.ttl).Err()
}
