// Package idempotency deduplicates send requests by idempotency key.
package idempotency

import (
	"context"
	"errors"
	"fmt"
	"time"

	"notifier/internal/domain/delivery"

	"github.com/redis/go-redis/v9"
)

var _ delivery.IdempotencyGuard = (*RedisGuard)(nil)

// RedisGuard records idempotency keys in Redis. The first request for a key
// claims it; later requests see the delivery id that claimed it.
type RedisGuard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisGuard creates a guard whose keys expire after ttl.
func NewRedisGuard(redisAddr, password string, db int, ttl time.Duration) *RedisGuard {
	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: password,
		DB:       db,
	})
	return &RedisGuard{client: client, ttl: ttl}
}

func keyFor(idempotencyKey string) string {
	return fmt.Sprintf("notifier:idempotency:%s", idempotencyKey)
}

// Claim stores deliveryID under key unless the key is already taken. It
// returns the delivery id now stored under key and whether this call set it.
func (g *RedisGuard) Claim(ctx context.Context, key, deliveryID string) (string, bool, error) {
	ok, err := g.client.SetNX(ctx, keyFor(key), deliveryID, g.ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("claiming idempotency key: %w", err)
	}
	if ok {
		return deliveryID, true, nil
	}

	existing, err := g.client.Get(ctx, keyFor(key)).Result()
	if errors.Is(err, redis.Nil) {
		// Expired between SETNX and GET; treat as a fresh claim.
		return g.Claim(ctx, key, deliveryID)
	}
	if err != nil {
		return "", false, fmt.Errorf("reading idempotency key: %w", err)
	}
	return existing, false, nil
}

// Release drops key so the request can be retried, e.g. after a failed enqueue.
func (g *RedisGuard) Release(ctx context.Context, key string) error {
	if err := g.client.Del(ctx, keyFor(key)).Err(); err != nil {
		return fmt.Errorf("releasing idempotency key: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (g *RedisGuard) Close() error {
	return g.client.Close()
}
