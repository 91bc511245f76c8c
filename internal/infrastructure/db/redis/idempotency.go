package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// pendingValue marks a key whose booking is still being written.
const pendingValue = "pending"

// IdempotencyStore maps client-supplied Idempotency-Key values to the id of
// the booking they produced.
// Key format: idem:<scope>
type IdempotencyStore struct {
	client *redis.Client
}

// NewIdempotencyStore creates an IdempotencyStore wrapping the given Redis client.
func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{client: client}
}

// Reserve claims key with SETNX. When the key is already taken it returns
// the stored booking id, or "" while the key is still pending.
func (s *IdempotencyStore) Reserve(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	ok, err := s.client.SetNX(ctx, s.key(key), pendingValue, ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("idempotency reserve: %w", err)
	}
	if ok {
		return "", true, nil
	}

	id, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		// Released or expired since SETNX; the caller retries the claim.
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("idempotency reserve: %w", err)
	}
	if id == pendingValue {
		return "", false, nil
	}
	return id, false, nil
}

// Complete stores bookingID under key for ttl, replacing the pending marker.
func (s *IdempotencyStore) Complete(ctx context.Context, key, bookingID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key(key), bookingID, ttl).Err(); err != nil {
		return fmt.Errorf("idempotency complete: %w", err)
	}
	return nil
}

// Release drops a reservation that did not produce a booking.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("idempotency release: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) key(k string) string {
	return "idem:" + k
}
