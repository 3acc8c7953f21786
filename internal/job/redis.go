// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pdiddy/paper-digest/pkg/types"
)

// redisKeyPrefix namespaces job records in a shared redis instance.
const redisKeyPrefix = "paper-digest:job:"

// RedisStore persists job records as JSON values in redis, letting several
// API replicas share one job table. Terminal records expire through redis
// key TTLs; in-flight records carry no expiry.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects using a redis URL
// (e.g. "redis://localhost:6379/0").
func NewRedisStore(url string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: redis.NewClient(opts), ttl: ttl}, nil
}

// NewRedisStoreWithClient wraps an existing client; tests use this with
// miniredis.
func NewRedisStoreWithClient(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Create(ctx context.Context, j types.Job) error {
	return s.set(ctx, j)
}

func (s *RedisStore) Get(ctx context.Context, id string) (types.Job, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return types.Job{}, ErrNotFound
	}
	if err != nil {
		return types.Job{}, fmt.Errorf("reading job: %w", err)
	}

	var j types.Job
	if err := json.Unmarshal([]byte(data), &j); err != nil {
		return types.Job{}, fmt.Errorf("decoding job: %w", err)
	}
	return j, nil
}

func (s *RedisStore) Update(ctx context.Context, j types.Job) error {
	exists, err := s.client.Exists(ctx, redisKeyPrefix+j.ID).Result()
	if err != nil {
		return fmt.Errorf("checking job: %w", err)
	}
	if exists == 0 {
		return ErrNotFound
	}
	return s.set(ctx, j)
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("deleting job: %w", err)
	}
	return nil
}

// Close closes the redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) set(ctx context.Context, j types.Job) error {
	data, err := json.Marshal(j)
	if err != nil {
		return fmt.Errorf("encoding job: %w", err)
	}

	// Terminal records expire; active ones persist until their final update.
	var expiry time.Duration
	if j.State.Terminal() {
		expiry = s.ttl
	}
	if err := s.client.Set(ctx, redisKeyPrefix+j.ID, data, expiry).Err(); err != nil {
		return fmt.Errorf("writing job: %w", err)
	}
	return nil
}
