package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"wallet-gateway/internal/core/domain"
	"wallet-gateway/pkg/apperror"
)

// AnomalyRepo implements ports.AnomalyRepository.
type AnomalyRepo struct {
	pool Pool
}

// NewAnomalyRepo creates an anomaly repository.
func NewAnomalyRepo(pool Pool) *AnomalyRepo {
	return &AnomalyRepo{pool: pool}
}

// Record persists a reconciliation anomaly.
func (r *AnomalyRepo) Record(ctx context.Context, anomaly *domain.Anomaly) error {
	if anomaly.ID == uuid.Nil {
		anomaly.ID = uuid.New()
	}
	anomaly.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO anomalies (id, kind, reference, gateway, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query,
		anomaly.ID, anomaly.Kind, anomaly.Reference, anomaly.Gateway, anomaly.Details, anomaly.CreatedAt,
	)
	if err != nil {
		return apperror.ErrPersistence(fmt.Errorf("recording anomaly %s/%s: %w", anomaly.Kind, anomaly.Reference, err))
	}
	return nil
}
