package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/authsession/internal/common"
	"github.com/redis/go-redis/v9"
)

// redisKV is the part of the go-redis client the store uses.
type redisKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisStore keeps the token in a Redis string so that several client
// processes on one machine or network share the same session slot.
type RedisStore struct {
	kv  redisKV
	key string
}

// NewRedisStore stores the token under prefix + common.AccessTokenKey.
func NewRedisStore(kv redisKV, prefix string) *RedisStore {
	return &RedisStore{kv: kv, key: prefix + common.AccessTokenKey}
}

func (s *RedisStore) Save(ctx context.Context, token string) error {
	if err := s.kv.Set(ctx, s.key, token, 0).Err(); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

func (s *RedisStore) Read(ctx context.Context) (string, error) {
	v, err := s.kv.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return v, nil
}

func (s *RedisStore) Remove(ctx context.Context) error {
	if err := s.kv.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}
