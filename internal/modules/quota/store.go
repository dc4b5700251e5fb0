package quota

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Keys expire well after the day ends so a client's counter never carries
// over, which gives the daily reset for free.
const counterTTL = 48 * time.Hour

// Store handles per-client turn counters in Redis.
type Store struct {
	rdb   *redis.Client
	limit int
}

// NewStore returns a Store backed by the given Redis client. limit <= 0
// falls back to DefaultDailyTurns.
func NewStore(rdb *redis.Client, limit int) *Store {
	if limit <= 0 {
		limit = DefaultDailyTurns
	}
	return &Store{rdb: rdb, limit: limit}
}

// UseTurn atomically counts one chat turn against the client's daily
// allowance. Returns ErrQuotaExhausted once the counter passes the limit.
func (s *Store) UseTurn(ctx context.Context, clientID string) error {
	key := fmt.Sprintf("quota:v1:%s:%s", clientID, time.Now().UTC().Format("2006-01-02"))

	n, err := s.rdb.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("quota: incr %s: %w", key, err)
	}
	if n == 1 {
		if err := s.rdb.Expire(ctx, key, counterTTL).Err(); err != nil {
			return fmt.Errorf("quota: expire %s: %w", key, err)
		}
	}
	if n > int64(s.limit) {
		return ErrQuotaExhausted
	}
	return nil
}
