package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"wallet-gateway/internal/core/domain"
	"wallet-gateway/pkg/apperror"
)

// ProfileRepo implements ports.ProfileRepository. Profiles are owned by the
// surrounding user system; this service only reads them.
type ProfileRepo struct {
	pool Pool
}

// NewProfileRepo creates a profile repository.
func NewProfileRepo(pool Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

// GetByID fetches a profile by id.
func (r *ProfileRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	return r.get(ctx, "id = $1", id)
}

// GetByEmail fetches a profile by email.
func (r *ProfileRepo) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	return r.get(ctx, "email = $1", email)
}

func (r *ProfileRepo) get(ctx context.Context, where string, arg any) (*domain.Profile, error) {
	query := `
		SELECT id, email, pin_hash, created_at
		FROM profiles
		WHERE ` + where

	var p domain.Profile
	err := r.pool.QueryRow(ctx, query, arg).Scan(&p.ID, &p.Email, &p.PinHash, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.ErrNotFound("Profile")
		}
		return nil, apperror.ErrPersistence(fmt.Errorf("querying profile: %w", err))
	}
	return &p, nil
}
