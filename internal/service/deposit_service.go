package service

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"wallet-gateway/internal/core/domain"
	"wallet-gateway/internal/core/ports"
	"wallet-gateway/pkg/apperror"
)

// DepositSvc initiates deposits: it validates the request, asks the gateway
// for a hosted checkout, then records the pending transaction. The gateway
// call comes first so no pending record exists for a checkout that was
// never created.
type DepositSvc struct {
	gateways       map[string]ports.GatewayClient
	defaultGateway string
	txRepo         ports.TransactionRepository
	anomalyRepo    ports.AnomalyRepository
	fees           *FeeSchedule
	minDeposit     decimal.Decimal
	logger         zerolog.Logger
}

// NewDepositSvc creates a deposit service. Clients are registered under
// their Name().
func NewDepositSvc(
	clients []ports.GatewayClient,
	defaultGateway string,
	txRepo ports.TransactionRepository,
	anomalyRepo ports.AnomalyRepository,
	fees *FeeSchedule,
	minDeposit decimal.Decimal,
	logger zerolog.Logger,
) *DepositSvc {
	gateways := make(map[string]ports.GatewayClient, len(clients))
	for _, c := range clients {
		gateways[c.Name()] = c
	}
	return &DepositSvc{
		gateways:       gateways,
		defaultGateway: defaultGateway,
		txRepo:         txRepo,
		anomalyRepo:    anomalyRepo,
		fees:           fees,
		minDeposit:     minDeposit,
		logger:         logger.With().Str("component", "deposit").Logger(),
	}
}

// Initiate implements ports.DepositService.
func (s *DepositSvc) Initiate(ctx context.Context, in ports.DepositInput) (*ports.DepositResult, error) {
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, apperror.Validation("invalid email address")
	}
	if !in.Amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}
	if in.Amount.LessThan(s.minDeposit) {
		return nil, apperror.ErrAmountBelowMinimum(s.minDeposit.String())
	}

	fee, err := s.fees.DepositFee(in.Method, in.Amount)
	if err != nil {
		return nil, err
	}
	total := in.Amount.Add(fee)

	gatewayName := in.Gateway
	if gatewayName == "" {
		gatewayName = s.defaultGateway
	}
	gateway, ok := s.gateways[gatewayName]
	if !ok {
		return nil, apperror.ErrUnknownGateway(gatewayName)
	}

	reference := domain.NewDepositReference()

	checkout, err := gateway.Initiate(ctx, ports.InitiateRequest{
		Reference: reference,
		Email:     in.Email,
		Amount:    total,
	})
	if err != nil {
		return nil, err
	}

	tx := &domain.Transaction{
		Reference: reference,
		Email:     in.Email,
		Amount:    in.Amount,
		Kind:      domain.TransactionKindDeposit,
		Status:    domain.TransactionStatusPending,
		Gateway:   gatewayName,
		Meta: map[string]any{
			domain.MetaFee:           fee.String(),
			domain.MetaMethod:        in.Method,
			domain.MetaCheckoutTotal: total.String(),
			domain.MetaGatewayRef:    checkout.GatewayRef,
		},
	}
	if err := s.txRepo.Create(ctx, tx); err != nil {
		// The gateway already issued a checkout the customer may pay, but
		// no pending record exists to settle it against. Flag for manual
		// reconciliation before surfacing the failure.
		s.logger.Error().Err(err).
			Str("reference", reference).
			Str("gateway", gatewayName).
			Msg("checkout created but pending transaction could not be recorded")
		s.recordAnomaly(ctx, reference, gatewayName,
			fmt.Sprintf("checkout %s issued but pending record failed: %v", checkout.CheckoutURL, err))
		return nil, err
	}

	s.logger.Info().
		Str("reference", reference).
		Str("gateway", gatewayName).
		Str("amount", in.Amount.String()).
		Str("fee", fee.String()).
		Msg("deposit initiated")

	return &ports.DepositResult{
		Reference:   reference,
		CheckoutURL: checkout.CheckoutURL,
		Fee:         fee,
		Total:       total,
	}, nil
}

func (s *DepositSvc) recordAnomaly(ctx context.Context, reference, gateway, details string) {
	anomaly := &domain.Anomaly{
		Kind:      domain.AnomalyOrphanedCheckout,
		Reference: reference,
		Gateway:   gateway,
		Details:   details,
	}
	if err := s.anomalyRepo.Record(ctx, anomaly); err != nil {
		s.logger.Error().Err(err).Str("reference", reference).Msg("failed to record anomaly")
	}
}
