package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"wallet-gateway/internal/core/domain"
)

// DBTransactor begins database transactions so services can group a status
// transition and a balance mutation into one atomic unit.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TransactionRepository persists deposit and withdrawal records.
type TransactionRepository interface {
	Create(ctx context.Context, tx *domain.Transaction) error
	GetByReference(ctx context.Context, reference string) (*domain.Transaction, error)
	// MarkSettled transitions the transaction identified by reference from
	// pending to status, within dbTx. It returns false when the transaction
	// was not pending, which is how duplicate webhook deliveries are
	// detected: exactly one caller ever observes true.
	MarkSettled(ctx context.Context, dbTx pgx.Tx, reference string, status domain.TransactionStatus) (bool, error)
}

// WalletRepository mutates balances with single conditional statements so
// concurrent settlements and withdrawals never interleave partial state.
type WalletRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error)
	// Credit adds amount to the wallet within dbTx and returns the new
	// balance. The wallet row is created on first credit if absent.
	Credit(ctx context.Context, dbTx pgx.Tx, userID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error)
	// Debit subtracts amount only if the balance covers it. The boolean is
	// false when funds were insufficient and nothing was changed.
	Debit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, bool, error)
}

// ProfileRepository reads user identities from the external user store.
type ProfileRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error)
	GetByEmail(ctx context.Context, email string) (*domain.Profile, error)
}

// AnomalyRepository records reconciliation anomalies for manual review.
type AnomalyRepository interface {
	Record(ctx context.Context, anomaly *domain.Anomaly) error
}
