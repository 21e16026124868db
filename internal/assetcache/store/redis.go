package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/redis/go-redis/v9"

	"grimoire/internal/assetcache/models"
	"grimoire/pkg/platform/sentinel"
)

const (
	redisBucketsKey      = "assetcache:buckets"
	redisBucketKeyPrefix = "assetcache:bucket:"
)

// RedisBucketStore keeps the set of bucket names in one Redis set and the
// entries of each bucket in a hash keyed by URL.
type RedisBucketStore struct {
	client *redis.Client
}

// NewRedisBucketStore constructs a Redis-backed bucket store. The client
// lifecycle is managed by the caller.
func NewRedisBucketStore(client *redis.Client) *RedisBucketStore {
	return &RedisBucketStore{client: client}
}

func bucketKey(name string) string {
	return redisBucketKeyPrefix + name
}

func (s *RedisBucketStore) Open(ctx context.Context, bucket string) error {
	if err := s.client.SAdd(ctx, redisBucketsKey, bucket).Err(); err != nil {
		return fmt.Errorf("open bucket: %w", err)
	}
	return nil
}

func (s *RedisBucketStore) Put(ctx context.Context, bucket string, entry models.Entry) error {
	return s.PutAll(ctx, bucket, []models.Entry{entry})
}

// PutAll writes every entry in one MULTI/EXEC transaction.
func (s *RedisBucketStore) PutAll(ctx context.Context, bucket string, entries []models.Entry) error {
	fields := make([]any, 0, 2*len(entries))
	for _, e := range entries {
		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("marshal entry %s: %w", e.URL, err)
		}
		fields = append(fields, e.URL, data)
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SAdd(ctx, redisBucketsKey, bucket)
		if len(fields) > 0 {
			pipe.HSet(ctx, bucketKey(bucket), fields...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("put entries: %w", err)
	}
	return nil
}

func (s *RedisBucketStore) Match(ctx context.Context, bucket, url string) (models.Entry, error) {
	data, err := s.client.HGet(ctx, bucketKey(bucket), url).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Entry{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.Entry{}, fmt.Errorf("match entry: %w", err)
	}
	var e models.Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return models.Entry{}, fmt.Errorf("decode entry: %w", err)
	}
	return e, nil
}

func (s *RedisBucketStore) Keys(ctx context.Context) ([]string, error) {
	names, err := s.client.SMembers(ctx, redisBucketsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list buckets: %w", err)
	}
	slices.Sort(names)
	return names, nil
}

func (s *RedisBucketStore) Delete(ctx context.Context, bucket string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, bucketKey(bucket))
		pipe.SRem(ctx, redisBucketsKey, bucket)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete bucket: %w", err)
	}
	return nil
}
