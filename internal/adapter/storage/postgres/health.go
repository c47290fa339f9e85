package postgres

import "context"

// HealthChecker reports database liveness.
type HealthChecker struct {
	pool Pool
}

// NewHealthChecker creates a postgres health checker.
func NewHealthChecker(pool Pool) *HealthChecker {
	return &HealthChecker{pool: pool}
}

// Name implements ports.HealthChecker.
func (h *HealthChecker) Name() string { return "postgres" }

// Check implements ports.HealthChecker.
func (h *HealthChecker) Check(ctx context.Context) error {
	return h.pool.Ping(ctx)
}
