package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "trivia:kv:"

// KV is a Redis-backed implementation of cache.Store. Entries expire after
// the configured TTL; an abandoned game's unsent answers do not need to
// outlive it by much.
type KV struct {
	client *redis.Client
	ttl    time.Duration
}

func NewKV(client *redis.Client, ttl time.Duration) *KV {
	return &KV{client: client, ttl: ttl}
}

func (s *KV) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *KV) Set(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, keyPrefix+key, value, s.ttl).Err()
}

func (s *KV) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, keyPrefix+key).Err()
}
