// Package occupancy tracks how many seats of a session are already booked.
// The count feeds the surge pricing strategy; it is advisory, not a source
// of booking correctness.
package occupancy

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Source reports the current sold-seat count for a session.
type Source interface {
	SeatsSold(ctx context.Context, sessionID uuid.UUID) (int, error)
}

// Tracker is a Source whose count is adjusted as bookings come and go.
type Tracker interface {
	Source
	Increment(ctx context.Context, sessionID uuid.UUID) error
	Decrement(ctx context.Context, sessionID uuid.UUID) error
}

type RedisTracker struct {
	client redis.UniversalClient
}

func NewRedisTracker(client redis.UniversalClient) *RedisTracker {
	return &RedisTracker{client: client}
}

func (t *RedisTracker) SeatsSold(ctx context.Context, sessionID uuid.UUID) (int, error) {
	count, err := t.client.Get(ctx, counterKey(sessionID)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}

		return 0, fmt.Errorf("failed to read booked count for session %s: %w", sessionID, err)
	}

	return count, nil
}

func (t *RedisTracker) Increment(ctx context.Context, sessionID uuid.UUID) error {
	return t.client.Incr(ctx, counterKey(sessionID)).Err()
}

func (t *RedisTracker) Decrement(ctx context.Context, sessionID uuid.UUID) error {
	return t.client.Decr(ctx, counterKey(sessionID)).Err()
}

func counterKey(sessionID uuid.UUID) string {
	return fmt.Sprintf("session:%s:booked_count", sessionID)
}
