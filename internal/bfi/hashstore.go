package bfi

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// HashStore remembers the content hash of the last guide downloaded.
type HashStore interface {
	LastHash(ctx context.Context) (string, error)
	SaveHash(ctx context.Context, hash string) error
}

// RedisHashStore keeps the hash under a single key with no expiry.
type RedisHashStore struct {
	rdb *redis.Client
	key string
}

// NewRedisHashStore returns nil when rdb is nil so callers can skip change
// detection without Redis.
func NewRedisHashStore(rdb *redis.Client, key string) HashStore {
	if rdb == nil {
		return nil
	}
	if key == "" {
		key = "bfi:guide:hash"
	}
	return &RedisHashStore{rdb: rdb, key: key}
}

func (s *RedisHashStore) LastHash(ctx context.Context) (string, error) {
	h, err := s.rdb.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return h, err
}

func (s *RedisHashStore) SaveHash(ctx context.Context, hash string) error {
	return s.rdb.Set(ctx, s.key, hash, 0).Err()
}
