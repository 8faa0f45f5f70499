package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	idempotencyTTL = 24 * time.Hour
	// pendingTTL bounds how long a claim survives a process that died before
	// completing or releasing it.
	pendingTTL    = 5 * time.Minute
	pendingMarker = "pending"
	claimAttempts = 2
)

// IdempotencyStore maps client Idempotency-Key headers to the temple they
// created. Key format: idem:temple:<key>
type IdempotencyStore struct {
	client     redis.Cmdable
	ttl        time.Duration
	pendingTTL time.Duration
}

// NewIdempotencyStore creates an IdempotencyStore wrapping the given Redis client.
func NewIdempotencyStore(client redis.Cmdable) *IdempotencyStore {
	return &IdempotencyStore{client: client, ttl: idempotencyTTL, pendingTTL: pendingTTL}
}

// Claim reserves key with a pending marker using SETNX. If the key is held,
// the stored temple id is returned, empty while the holder is still pending.
func (s *IdempotencyStore) Claim(ctx context.Context, key string) (string, bool, error) {
	k := s.key(key)
	for range claimAttempts {
		ok, err := s.client.SetNX(ctx, k, pendingMarker, s.pendingTTL).Result()
		if err != nil {
			return "", false, fmt.Errorf("idempotency claim: %w", err)
		}
		if ok {
			return "", true, nil
		}

		val, err := s.client.Get(ctx, k).Result()
		if errors.Is(err, redis.Nil) {
			// expired or released between the two calls
			continue
		}
		if err != nil {
			return "", false, fmt.Errorf("idempotency claim: %w", err)
		}
		if val == pendingMarker {
			return "", false, nil
		}
		return val, false, nil
	}
	return "", false, nil
}

// Complete stores templeID under key for idempotencyTTL.
func (s *IdempotencyStore) Complete(ctx context.Context, key, templeID string) error {
	if err := s.client.Set(ctx, s.key(key), templeID, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency complete: %w", err)
	}
	return nil
}

// Release deletes key so a retry can claim it again.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("idempotency release: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) key(key string) string {
	return "idem:temple:" + key
}
