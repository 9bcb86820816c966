package store

import (
	"context"

	"github.com/go-redis/redis/v8"
)

// RedisLikeStore implements LikeStore on a single Redis counter key. INCR is
// atomic, so concurrent increments never lose updates or create a second
// counter.
type RedisLikeStore struct {
	rdb *redis.Client
}

// NewRedisLikeStore creates a like store backed by the given client
func NewRedisLikeStore(rdb *redis.Client) *RedisLikeStore {
	return &RedisLikeStore{rdb: rdb}
}

func (s *RedisLikeStore) Get(ctx context.Context) (int64, error) {
	count, err := s.rdb.Get(ctx, likesKey).Int64()
	if err == redis.Nil {
		// Lazily create the singleton at zero on first read
		if err := s.rdb.SetNX(ctx, likesKey, 0, 0).Err(); err != nil {
			return 0, err
		}
		return 0, nil
	} else if err != nil {
		return 0, err
	}
	return count, nil
}

func (s *RedisLikeStore) Increment(ctx context.Context) (int64, error) {
	return s.rdb.Incr(ctx, likesKey).Result()
}
