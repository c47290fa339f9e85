package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// HealthChecker reports Redis liveness.
type HealthChecker struct {
	client *redis.Client
}

// NewHealthChecker creates a redis health checker.
func NewHealthChecker(client *redis.Client) *HealthChecker {
	return &HealthChecker{client: client}
}

// Name implements ports.HealthChecker.
func (h *HealthChecker) Name() string { return "redis" }

// Check implements ports.HealthChecker.
func (h *HealthChecker) Check(ctx context.Context) error {
	return h.client.Ping(ctx).Err()
}
