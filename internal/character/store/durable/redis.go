package durable

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"grimoire/pkg/platform/sentinel"
)

const redisKeyPrefix = "grimoire:durable:"

// Redis stores each item as a plain string key without expiry.
type Redis struct {
	client *redis.Client
}

// NewRedis constructs a Redis-backed store. The client lifecycle is managed
// by the caller.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (s *Redis) GetItem(ctx context.Context, key string) ([]byte, error) {
	v, err := s.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return v, nil
}

func (s *Redis) SetItem(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, redisKeyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("set item: %w", err)
	}
	return nil
}

func (s *Redis) RemoveItem(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("remove item: %w", err)
	}
	return nil
}
