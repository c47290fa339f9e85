package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"wallet-gateway/internal/core/domain"
	"wallet-gateway/internal/core/ports"
	"wallet-gateway/internal/core/ports/mocks"
	"wallet-gateway/pkg/apperror"
)

type depositFixture struct {
	gateway     *mocks.MockGatewayClient
	txRepo      *mocks.MockTransactionRepository
	anomalyRepo *mocks.MockAnomalyRepository
	svc         *DepositSvc
}

func newDepositFixture(t *testing.T) *depositFixture {
	ctrl := gomock.NewController(t)
	f := &depositFixture{
		gateway:     mocks.NewMockGatewayClient(ctrl),
		txRepo:      mocks.NewMockTransactionRepository(ctrl),
		anomalyRepo: mocks.NewMockAnomalyRepository(ctrl),
	}
	f.gateway.EXPECT().Name().Return("opay").AnyTimes()
	f.svc = NewDepositSvc(
		[]ports.GatewayClient{f.gateway},
		"opay",
		f.txRepo,
		f.anomalyRepo,
		testFeeSchedule(),
		decimal.NewFromInt(100),
		zerolog.Nop(),
	)
	return f
}

func TestDepositInitiate(t *testing.T) {
	f := newDepositFixture(t)

	f.gateway.EXPECT().
		Initiate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req ports.InitiateRequest) (*ports.InitiateResult, error) {
			assert.Equal(t, "user@example.com", req.Email)
			assert.True(t, req.Amount.Equal(decimal.NewFromInt(1015)), "gateway charges amount plus fee")
			return &ports.InitiateResult{CheckoutURL: "https://cashier.test/c/1", GatewayRef: "gw-1"}, nil
		})
	f.txRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tx *domain.Transaction) error {
			assert.Equal(t, domain.TransactionKindDeposit, tx.Kind)
			assert.Equal(t, domain.TransactionStatusPending, tx.Status)
			assert.True(t, tx.Amount.Equal(decimal.NewFromInt(1000)), "stored amount excludes the fee")
			assert.Equal(t, "15", tx.Meta[domain.MetaFee])
			assert.Equal(t, "1015", tx.Meta[domain.MetaCheckoutTotal])
			return nil
		})

	res, err := f.svc.Initiate(context.Background(), ports.DepositInput{
		Email:  "user@example.com",
		Amount: decimal.NewFromInt(1000),
		Method: MethodCard,
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cashier.test/c/1", res.CheckoutURL)
	assert.True(t, res.Fee.Equal(decimal.NewFromInt(15)))
	assert.True(t, res.Total.Equal(decimal.NewFromInt(1015)))
	assert.Contains(t, res.Reference, "DEP-")
}

func TestDepositValidation(t *testing.T) {
	f := newDepositFixture(t)

	cases := []struct {
		name string
		in   ports.DepositInput
		code string
	}{
		{"bad email", ports.DepositInput{Email: "nope", Amount: decimal.NewFromInt(1000), Method: MethodCard}, "VAL_001"},
		{"zero amount", ports.DepositInput{Email: "a@b.com", Amount: decimal.Zero, Method: MethodCard}, "VAL_002"},
		{"negative amount", ports.DepositInput{Email: "a@b.com", Amount: decimal.NewFromInt(-5), Method: MethodCard}, "VAL_002"},
		{"below minimum", ports.DepositInput{Email: "a@b.com", Amount: decimal.NewFromInt(99), Method: MethodCard}, "VAL_003"},
		{"unknown method", ports.DepositInput{Email: "a@b.com", Amount: decimal.NewFromInt(1000), Method: "crypto"}, "VAL_001"},
		{"unknown gateway", ports.DepositInput{Email: "a@b.com", Amount: decimal.NewFromInt(1000), Method: MethodCard, Gateway: "stripe"}, "GW_003"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := f.svc.Initiate(context.Background(), c.in)
			require.Error(t, err)
			var appErr *apperror.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, c.code, appErr.Code)
		})
	}
}

func TestDepositGatewayFailureRecordsNothing(t *testing.T) {
	f := newDepositFixture(t)

	f.gateway.EXPECT().
		Initiate(gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrGatewayRejected("declined"))

	_, err := f.svc.Initiate(context.Background(), ports.DepositInput{
		Email:  "user@example.com",
		Amount: decimal.NewFromInt(1000),
		Method: MethodCard,
	})
	require.Error(t, err)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "GW_001", appErr.Code)
}

func TestDepositPersistenceFailureFlagsOrphanedCheckout(t *testing.T) {
	f := newDepositFixture(t)

	f.gateway.EXPECT().
		Initiate(gomock.Any(), gomock.Any()).
		Return(&ports.InitiateResult{CheckoutURL: "https://cashier.test/c/1"}, nil)
	f.txRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Return(apperror.ErrPersistence(assert.AnError))
	f.anomalyRepo.EXPECT().
		Record(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, a *domain.Anomaly) error {
			assert.Equal(t, domain.AnomalyOrphanedCheckout, a.Kind)
			assert.Contains(t, a.Reference, "DEP-")
			return nil
		})

	_, err := f.svc.Initiate(context.Background(), ports.DepositInput{
		Email:  "user@example.com",
		Amount: decimal.NewFromInt(1000),
		Method: MethodCard,
	})
	require.Error(t, err)
}
