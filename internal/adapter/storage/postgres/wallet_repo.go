package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"wallet-gateway/internal/core/domain"
	"wallet-gateway/pkg/apperror"
)

// WalletRepo implements ports.WalletRepository. Both mutations are single
// statements whose conditions are evaluated by the database, so concurrent
// callers serialize on the wallet row and no balance is ever read, modified
// and written back in application code.
type WalletRepo struct {
	pool Pool
}

// NewWalletRepo creates a wallet repository.
func NewWalletRepo(pool Pool) *WalletRepo {
	return &WalletRepo{pool: pool}
}

// GetByUserID fetches a wallet.
func (r *WalletRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error) {
	query := `
		SELECT user_id, balance, created_at, updated_at
		FROM wallets
		WHERE user_id = $1`

	var w domain.Wallet
	err := r.pool.QueryRow(ctx, query, userID).Scan(&w.UserID, &w.Balance, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.ErrNotFound("Wallet")
		}
		return nil, apperror.ErrPersistence(fmt.Errorf("querying wallet %s: %w", userID, err))
	}
	return &w, nil
}

// Credit adds amount to the wallet within dbTx, creating the wallet row on
// first credit, and returns the new balance.
func (r *WalletRepo) Credit(ctx context.Context, dbTx pgx.Tx, userID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	query := `
		INSERT INTO wallets (user_id, balance, created_at, updated_at)
		VALUES ($1, $2, now(), now())
		ON CONFLICT (user_id)
		DO UPDATE SET balance = wallets.balance + EXCLUDED.balance, updated_at = now()
		RETURNING balance`

	var balance decimal.Decimal
	if err := dbTx.QueryRow(ctx, query, userID, amount).Scan(&balance); err != nil {
		return decimal.Zero, apperror.ErrPersistence(fmt.Errorf("crediting wallet %s: %w", userID, err))
	}
	return balance, nil
}

// Debit subtracts amount only when the balance covers it. The returned
// boolean is false when no row matched, meaning funds were insufficient and
// nothing changed.
func (r *WalletRepo) Debit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, bool, error) {
	query := `
		UPDATE wallets
		SET balance = balance - $1, updated_at = now()
		WHERE user_id = $2 AND balance >= $1
		RETURNING balance`

	var balance decimal.Decimal
	err := r.pool.QueryRow(ctx, query, amount, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, false, nil
		}
		return decimal.Zero, false, apperror.ErrPersistence(fmt.Errorf("debiting wallet %s: %w", userID, err))
	}
	return balance, true, nil
}
