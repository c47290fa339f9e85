package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimitStore counts requests per key in fixed windows.
type RateLimitStore struct {
	client *redis.Client
}

// NewRateLimitStore creates a rate limit store.
func NewRateLimitStore(client *redis.Client) *RateLimitStore {
	return &RateLimitStore{client: client}
}

// Increment bumps the counter for key and returns the count within the
// current window. The window TTL is set on first increment.
func (s *RateLimitStore) Increment(ctx context.Context, key string, window time.Duration) (int64, error) {
	redisKey := "ratelimit:" + key

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.ExpireNX(ctx, redisKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("incrementing rate limit counter: %w", err)
	}

	return incr.Val(), nil
}
