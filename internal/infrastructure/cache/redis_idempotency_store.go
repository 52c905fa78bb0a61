package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/procureflow/backend/internal/domain/shared"
	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "procure:idem:"

// RedisIdempotencyStore implements IdempotencyStore using Redis. Suitable for
// deployments where multiple instances share idempotency state, such as
// goods-receipt tokens posted against the same purchase order.
type RedisIdempotencyStore struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisIdempotencyStore creates a Redis-backed idempotency store
func NewRedisIdempotencyStore(cfg RedisConfig) (*RedisIdempotencyStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisIdempotencyStore{
		client:    client,
		keyPrefix: defaultKeyPrefix,
	}, nil
}

// NewRedisIdempotencyStoreWithClient creates a store around an existing client.
// Useful for testing or when sharing a client across components.
func NewRedisIdempotencyStoreWithClient(client *redis.Client, keyPrefix string) *RedisIdempotencyStore {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	return &RedisIdempotencyStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// MarkProcessed marks a token as processed with a TTL.
// Returns true if the token was newly marked, false if it already existed.
// SETNX makes the check-and-set atomic across instances.
func (s *RedisIdempotencyStore) MarkProcessed(ctx context.Context, token string, ttl time.Duration) (bool, error) {
	newlySet, err := s.client.SetNX(ctx, s.keyPrefix+token, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark token as processed: %w", err)
	}
	return newlySet, nil
}

// IsProcessed checks if a token has already been processed
func (s *RedisIdempotencyStore) IsProcessed(ctx context.Context, token string) (bool, error) {
	exists, err := s.client.Exists(ctx, s.keyPrefix+token).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token: %w", err)
	}
	return exists > 0, nil
}

// Close closes the Redis client
func (s *RedisIdempotencyStore) Close() error {
	return s.client.Close()
}

var _ shared.IdempotencyStore = (*RedisIdempotencyStore)(nil)
