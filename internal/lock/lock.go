// Package lock wraps the Redis conditional-set primitive into the only
// mutual-exclusion mechanism the reservation engine uses.
package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Locker acquires and releases ephemeral, TTL-bounded locks. Acquire never
// blocks or retries: the key was either absent (acquired) or it wasn't.
type Locker interface {
	// Acquire attempts an atomic set-if-absent with the given TTL. On
	// success it returns the token stored as the lock's value; releasing
	// the lock requires presenting the same token.
	Acquire(ctx context.Context, key string, ttl time.Duration) (token string, ok bool, err error)

	// Release deletes the key only if it still holds token. Releasing an
	// absent, expired, or foreign lock is a no-op, not an error.
	Release(ctx context.Context, key, token string) error
}

// Deleting unconditionally would let a slow caller release a lock another
// party legitimately acquired after TTL expiry, so the token is compared
// server-side.
var releaseScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	end

	return 0
`)

type RedisLocker struct {
	client redis.UniversalClient
}

func NewRedisLocker(client redis.UniversalClient) *RedisLocker {
	return &RedisLocker{client: client}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}

	if !ok {
		return "", false, nil
	}

	return token, true, nil
}

func (l *RedisLocker) Release(ctx context.Context, key, token string) error {
	err := releaseScript.Run(ctx, l.client, []string{key}, token).Err()
	if err != nil {
		return fmt.Errorf("failed to release lock %s: %w", key, err)
	}

	return nil
}

// SeatKey derives the lock key identifying the exclusive reservation hold
// for a seat within a session.
func SeatKey(sessionID, seatID uuid.UUID) string {
	return fmt.Sprintf("lock:session:%s:seat:%s", sessionID, seatID)
}
