package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"wallet-gateway/internal/core/domain"
	"wallet-gateway/internal/core/ports/mocks"
	"wallet-gateway/pkg/apperror"
)

type settlementFixture struct {
	txRepo      *mocks.MockTransactionRepository
	walletRepo  *mocks.MockWalletRepository
	profileRepo *mocks.MockProfileRepository
	anomalyRepo *mocks.MockAnomalyRepository
	pool        pgxmock.PgxPoolIface
	svc         *SettlementSvc
}

func newSettlementFixture(t *testing.T) *settlementFixture {
	ctrl := gomock.NewController(t)
	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	f := &settlementFixture{
		txRepo:      mocks.NewMockTransactionRepository(ctrl),
		walletRepo:  mocks.NewMockWalletRepository(ctrl),
		profileRepo: mocks.NewMockProfileRepository(ctrl),
		anomalyRepo: mocks.NewMockAnomalyRepository(ctrl),
		pool:        pool,
	}
	f.svc = NewSettlementSvc(f.txRepo, f.walletRepo, f.profileRepo, f.anomalyRepo, pool, zerolog.Nop())
	return f
}

func pendingDeposit(userID *uuid.UUID) *domain.Transaction {
	return &domain.Transaction{
		ID:        uuid.New(),
		Reference: "DEP-abc",
		UserID:    userID,
		Email:     "user@example.com",
		Amount:    decimal.NewFromInt(1000),
		Kind:      domain.TransactionKindDeposit,
		Status:    domain.TransactionStatusPending,
		Gateway:   "opay",
		Meta: map[string]any{
			domain.MetaCheckoutTotal: "1015",
		},
	}
}

func successEvent() *domain.NormalizedEvent {
	return &domain.NormalizedEvent{
		Gateway:   "opay",
		Reference: "DEP-abc",
		Status:    domain.GatewayStatusSuccess,
		Amount:    decimal.RequireFromString("1015"),
		Email:     "user@example.com",
	}
}

func TestSettleSuccessCreditsWallet(t *testing.T) {
	f := newSettlementFixture(t)
	userID := uuid.New()

	f.txRepo.EXPECT().GetByReference(gomock.Any(), "DEP-abc").Return(pendingDeposit(&userID), nil)
	f.pool.ExpectBegin()
	f.txRepo.EXPECT().
		MarkSettled(gomock.Any(), gomock.Any(), "DEP-abc", domain.TransactionStatusSuccess).
		Return(true, nil)
	f.walletRepo.EXPECT().
		Credit(gomock.Any(), gomock.Any(), userID, decimal.NewFromInt(1000)).
		Return(decimal.NewFromInt(1000), nil)
	f.pool.ExpectCommit()

	require.NoError(t, f.svc.Settle(context.Background(), successEvent()))
	assert.NoError(t, f.pool.ExpectationsWereMet())
}

func TestSettleResolvesUserByEmail(t *testing.T) {
	f := newSettlementFixture(t)
	userID := uuid.New()

	f.txRepo.EXPECT().GetByReference(gomock.Any(), "DEP-abc").Return(pendingDeposit(nil), nil)
	f.profileRepo.EXPECT().
		GetByEmail(gomock.Any(), "user@example.com").
		Return(&domain.Profile{ID: userID, Email: "user@example.com"}, nil)
	f.pool.ExpectBegin()
	f.txRepo.EXPECT().
		MarkSettled(gomock.Any(), gomock.Any(), "DEP-abc", domain.TransactionStatusSuccess).
		Return(true, nil)
	f.walletRepo.EXPECT().
		Credit(gomock.Any(), gomock.Any(), userID, decimal.NewFromInt(1000)).
		Return(decimal.NewFromInt(2500), nil)
	f.pool.ExpectCommit()

	require.NoError(t, f.svc.Settle(context.Background(), successEvent()))
}

func TestSettleFailedEventNoCredit(t *testing.T) {
	f := newSettlementFixture(t)
	userID := uuid.New()

	f.txRepo.EXPECT().GetByReference(gomock.Any(), "DEP-abc").Return(pendingDeposit(&userID), nil)
	f.pool.ExpectBegin()
	f.txRepo.EXPECT().
		MarkSettled(gomock.Any(), gomock.Any(), "DEP-abc", domain.TransactionStatusFailed).
		Return(true, nil)
	f.pool.ExpectCommit()

	event := successEvent()
	event.Status = domain.GatewayStatusFailed

	require.NoError(t, f.svc.Settle(context.Background(), event))
}

func TestSettleAlreadyTerminalIsNoOp(t *testing.T) {
	f := newSettlementFixture(t)
	userID := uuid.New()

	tx := pendingDeposit(&userID)
	tx.Status = domain.TransactionStatusSuccess
	f.txRepo.EXPECT().GetByReference(gomock.Any(), "DEP-abc").Return(tx, nil)

	require.NoError(t, f.svc.Settle(context.Background(), successEvent()))
}

func TestSettleDuplicateDeliveryLosesRace(t *testing.T) {
	f := newSettlementFixture(t)
	userID := uuid.New()

	f.txRepo.EXPECT().GetByReference(gomock.Any(), "DEP-abc").Return(pendingDeposit(&userID), nil)
	f.pool.ExpectBegin()
	f.txRepo.EXPECT().
		MarkSettled(gomock.Any(), gomock.Any(), "DEP-abc", domain.TransactionStatusSuccess).
		Return(false, nil)
	f.pool.ExpectRollback()

	// Losing the compare-and-set means another delivery settled first. The
	// wallet must not be credited again.
	require.NoError(t, f.svc.Settle(context.Background(), successEvent()))
}

func TestSettleUnknownReferenceFlagsAnomaly(t *testing.T) {
	f := newSettlementFixture(t)

	f.txRepo.EXPECT().
		GetByReference(gomock.Any(), "DEP-abc").
		Return(nil, apperror.ErrNotFound("Transaction"))
	f.anomalyRepo.EXPECT().
		Record(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, a *domain.Anomaly) error {
			assert.Equal(t, domain.AnomalyUnmatchedReference, a.Kind)
			assert.Equal(t, "DEP-abc", a.Reference)
			return nil
		})

	require.NoError(t, f.svc.Settle(context.Background(), successEvent()))
}

func TestSettleAmountMismatchFlagsAnomaly(t *testing.T) {
	f := newSettlementFixture(t)
	userID := uuid.New()

	f.txRepo.EXPECT().GetByReference(gomock.Any(), "DEP-abc").Return(pendingDeposit(&userID), nil)
	f.anomalyRepo.EXPECT().
		Record(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, a *domain.Anomaly) error {
			assert.Equal(t, domain.AnomalyAmountMismatch, a.Kind)
			return nil
		})

	event := successEvent()
	event.Amount = decimal.NewFromInt(999999)

	// Acknowledged but nothing settled.
	require.NoError(t, f.svc.Settle(context.Background(), event))
}

func TestSettleUnrecognizedStatusIgnored(t *testing.T) {
	f := newSettlementFixture(t)

	event := successEvent()
	event.Status = domain.GatewayStatusOther

	require.NoError(t, f.svc.Settle(context.Background(), event))
}
