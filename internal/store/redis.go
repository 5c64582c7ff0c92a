package store

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/Iron-Ham/elitectl/internal/errors"
	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces keys when no prefix is configured.
const DefaultRedisPrefix = "elitectl:"

// RedisStore keeps values as plain redis strings without expiry.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// OpenRedis connects to the server at url and verifies it with PING.
func OpenRedis(ctx context.Context, url, prefix string) (*RedisStore, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.NewValidationError("redis url is required").WithField("store.redis_url")
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.NewValidationError("invalid redis url").WithField("store.redis_url").WithCause(err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.NewStoreError("failed to connect to redis", errors.Join(errors.ErrStoreUnavailable, err)).WithBackend(BackendRedis)
	}

	return NewRedisStore(client, prefix), nil
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

// Get returns the value for key, or ErrNotFound.
func (r *RedisStore) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, r.redisKey(key)).Result()
	if stderrors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", errors.NewStoreError("failed to read value", err).WithBackend(BackendRedis).WithKey(key)
	}
	return value, nil
}

// Set stores value under key with no TTL.
func (r *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.redisKey(key), value, 0).Err(); err != nil {
		return errors.NewStoreError("failed to write value", err).WithBackend(BackendRedis).WithKey(key)
	}
	return nil
}

// Close closes the client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}

func (r *RedisStore) redisKey(key string) string {
	return r.prefix + key
}
