package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/commerce/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const idempotencyKeyPrefix = "idempotency:"

// RedisIdempotencyStore keeps request keys in Redis so replay detection
// works across instances and restarts. SET NX gives the first writer
// the key; TTL handling is left to Redis.
type RedisIdempotencyStore struct {
	client *redis.Client
}

// NewRedisIdempotencyStore connects to Redis and verifies the
// connection before returning the store.
func NewRedisIdempotencyStore(ctx context.Context, cfg config.RedisConfig) (*RedisIdempotencyStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisIdempotencyStore{client: client}, nil
}

// Remember records a key with SET NX. Returns false when the key is
// already held, leaving the stored value and its TTL untouched.
func (s *RedisIdempotencyStore) Remember(ctx context.Context, key string, entityID uuid.UUID, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, idempotencyKeyPrefix+key, entityID.String(), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return ok, nil
}

// Lookup returns the entity recorded for a key
func (s *RedisIdempotencyStore) Lookup(ctx context.Context, key string) (uuid.UUID, bool, error) {
	value, err := s.client.Get(ctx, idempotencyKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("redis get: %w", err)
	}

	entityID, err := uuid.Parse(value)
	if err != nil {
		// A corrupt value is treated as a miss rather than failing the
		// request.
		return uuid.Nil, false, nil
	}
	return entityID, true, nil
}

// Close closes the Redis connection
func (s *RedisIdempotencyStore) Close() error {
	return s.client.Close()
}
