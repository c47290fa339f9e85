package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"wallet-gateway/internal/core/domain"
	"wallet-gateway/pkg/apperror"
)

// TransactionRepo implements ports.TransactionRepository.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a transaction repository.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

// Create inserts a new transaction record.
func (r *TransactionRepo) Create(ctx context.Context, tx *domain.Transaction) error {
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	now := time.Now().UTC()
	tx.CreatedAt = now
	tx.UpdatedAt = now

	meta, err := json.Marshal(tx.Meta)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("marshaling transaction meta: %w", err))
	}

	query := `
		INSERT INTO transactions (id, reference, user_id, email, amount, kind, status, gateway, meta, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err = r.pool.Exec(ctx, query,
		tx.ID, tx.Reference, tx.UserID, tx.Email, tx.Amount,
		tx.Kind, tx.Status, tx.Gateway, meta, tx.CreatedAt, tx.UpdatedAt,
	)
	if err != nil {
		return apperror.ErrPersistence(fmt.Errorf("inserting transaction %s: %w", tx.Reference, err))
	}
	return nil
}

// GetByReference looks up a transaction by its correlation reference.
func (r *TransactionRepo) GetByReference(ctx context.Context, reference string) (*domain.Transaction, error) {
	query := `
		SELECT id, reference, user_id, email, amount, kind, status, gateway, meta, created_at, updated_at
		FROM transactions
		WHERE reference = $1`

	var (
		tx   domain.Transaction
		meta []byte
	)
	err := r.pool.QueryRow(ctx, query, reference).Scan(
		&tx.ID, &tx.Reference, &tx.UserID, &tx.Email, &tx.Amount,
		&tx.Kind, &tx.Status, &tx.Gateway, &meta, &tx.CreatedAt, &tx.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.ErrNotFound("Transaction")
		}
		return nil, apperror.ErrPersistence(fmt.Errorf("querying transaction %s: %w", reference, err))
	}

	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &tx.Meta); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("unmarshaling transaction meta: %w", err))
		}
	}
	return &tx, nil
}

// MarkSettled transitions a pending transaction to a terminal status within
// dbTx. The status guard in the WHERE clause makes the transition a
// compare-and-set: under concurrent duplicate webhooks, exactly one caller
// sees a row affected.
func (r *TransactionRepo) MarkSettled(ctx context.Context, dbTx pgx.Tx, reference string, status domain.TransactionStatus) (bool, error) {
	query := `
		UPDATE transactions
		SET status = $2, updated_at = now()
		WHERE reference = $1 AND status = $3`

	tag, err := dbTx.Exec(ctx, query, reference, status, domain.TransactionStatusPending)
	if err != nil {
		return false, apperror.ErrPersistence(fmt.Errorf("settling transaction %s: %w", reference, err))
	}
	return tag.RowsAffected() == 1, nil
}
