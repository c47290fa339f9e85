package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallet-gateway/internal/core/domain"
	"wallet-gateway/pkg/apperror"
)

func TestTransactionRepoCreate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)

	tx := &domain.Transaction{
		Reference: "DEP-abc",
		Email:     "user@example.com",
		Amount:    decimal.NewFromInt(1000),
		Kind:      domain.TransactionKindDeposit,
		Status:    domain.TransactionStatusPending,
		Gateway:   "opay",
		Meta:      map[string]any{"fee": "15"},
	}

	mock.ExpectExec("INSERT INTO transactions").
		WithArgs(pgxmock.AnyArg(), "DEP-abc", pgxmock.AnyArg(), "user@example.com", tx.Amount,
			domain.TransactionKindDeposit, domain.TransactionStatusPending, "opay",
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), tx))
	assert.NotEqual(t, uuid.Nil, tx.ID, "id assigned on insert")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepoGetByReference(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)

	id := uuid.New()
	userID := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT (.+) FROM transactions").
		WithArgs("DEP-abc").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "reference", "user_id", "email", "amount", "kind", "status", "gateway", "meta", "created_at", "updated_at",
		}).AddRow(
			id, "DEP-abc", &userID, "user@example.com", decimal.NewFromInt(1000),
			domain.TransactionKindDeposit, domain.TransactionStatusPending, "opay",
			[]byte(`{"fee":"15"}`), now, now,
		))

	tx, err := repo.GetByReference(context.Background(), "DEP-abc")
	require.NoError(t, err)
	assert.Equal(t, id, tx.ID)
	assert.Equal(t, userID, *tx.UserID)
	assert.Equal(t, domain.TransactionStatusPending, tx.Status)
	assert.Equal(t, "15", tx.Meta["fee"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepoGetByReferenceNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)

	mock.ExpectQuery("SELECT (.+) FROM transactions").
		WithArgs("DEP-missing").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "reference", "user_id", "email", "amount", "kind", "status", "gateway", "meta", "created_at", "updated_at",
		}))

	_, err = repo.GetByReference(context.Background(), "DEP-missing")
	require.Error(t, err)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "PAY_002", appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepoMarkSettled(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE transactions").
		WithArgs("DEP-abc", domain.TransactionStatusSuccess, domain.TransactionStatusPending).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	dbTx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	won, err := repo.MarkSettled(context.Background(), dbTx, "DEP-abc", domain.TransactionStatusSuccess)
	require.NoError(t, err)
	assert.True(t, won)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepoMarkSettledAlreadyTerminal(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE transactions").
		WithArgs("DEP-abc", domain.TransactionStatusSuccess, domain.TransactionStatusPending).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	dbTx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	won, err := repo.MarkSettled(context.Background(), dbTx, "DEP-abc", domain.TransactionStatusSuccess)
	require.NoError(t, err)
	assert.False(t, won, "no pending row means another delivery already settled it")
	assert.NoError(t, mock.ExpectationsWereMet())
}
