package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"wallet-gateway/internal/core/domain"
	"wallet-gateway/internal/core/ports"
	"wallet-gateway/pkg/apperror"
)

// WithdrawalSvc debits wallets for outbound transfers. The debit is a
// conditional update that the store rejects when the balance cannot cover
// amount plus fee, so concurrent withdrawals can never overdraw.
type WithdrawalSvc struct {
	profileRepo   ports.ProfileRepository
	walletRepo    ports.WalletRepository
	txRepo        ports.TransactionRepository
	anomalyRepo   ports.AnomalyRepository
	pinHasher     ports.PinHasher
	fees          *FeeSchedule
	minWithdrawal decimal.Decimal
	logger        zerolog.Logger
}

// NewWithdrawalSvc creates a withdrawal service.
func NewWithdrawalSvc(
	profileRepo ports.ProfileRepository,
	walletRepo ports.WalletRepository,
	txRepo ports.TransactionRepository,
	anomalyRepo ports.AnomalyRepository,
	pinHasher ports.PinHasher,
	fees *FeeSchedule,
	minWithdrawal decimal.Decimal,
	logger zerolog.Logger,
) *WithdrawalSvc {
	return &WithdrawalSvc{
		profileRepo:   profileRepo,
		walletRepo:    walletRepo,
		txRepo:        txRepo,
		anomalyRepo:   anomalyRepo,
		pinHasher:     pinHasher,
		fees:          fees,
		minWithdrawal: minWithdrawal,
		logger:        logger.With().Str("component", "withdrawal").Logger(),
	}
}

// Withdraw implements ports.WithdrawalService.
func (s *WithdrawalSvc) Withdraw(ctx context.Context, in ports.WithdrawalInput) (*ports.WithdrawalResult, error) {
	if !in.Amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}
	if in.Amount.LessThan(s.minWithdrawal) {
		return nil, apperror.ErrAmountBelowMinimum(s.minWithdrawal.String())
	}
	if in.BankCode == "" || in.AccountNumber == "" || in.AccountName == "" {
		return nil, apperror.Validation("bank_code, account_number and account_name are required")
	}

	profile, err := s.profileRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if profile.HasPin() {
		if in.Pin == "" {
			return nil, apperror.ErrInvalidPin()
		}
		ok, err := s.pinHasher.Verify(in.Pin, *profile.PinHash)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("verifying pin: %w", err))
		}
		if !ok {
			return nil, apperror.ErrInvalidPin()
		}
	}

	fee := s.fees.WithdrawalFee()
	totalDebit := in.Amount.Add(fee)

	newBalance, ok, err := s.walletRepo.Debit(ctx, in.UserID, totalDebit)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.ErrInsufficientBalance()
	}

	// The payout itself is fulfilled downstream; the record stays pending
	// until the transfer provider reports back. Amount is the payout amount,
	// the fee lives in meta.
	reference := domain.NewWithdrawalReference()
	userID := in.UserID
	tx := &domain.Transaction{
		Reference: reference,
		UserID:    &userID,
		Email:     profile.Email,
		Amount:    in.Amount,
		Kind:      domain.TransactionKindWithdrawal,
		Status:    domain.TransactionStatusPending,
		Gateway:   "transfer",
		Meta: map[string]any{
			domain.MetaFee:           fee.String(),
			domain.MetaBankCode:      in.BankCode,
			domain.MetaAccountNumber: in.AccountNumber,
			domain.MetaAccountName:   in.AccountName,
		},
	}
	if err := s.txRepo.Create(ctx, tx); err != nil {
		// The wallet was already debited. Flag the orphaned debit for
		// manual reconciliation before surfacing the failure.
		s.logger.Error().Err(err).
			Str("reference", reference).
			Str("user_id", in.UserID.String()).
			Msg("wallet debited but withdrawal record failed")
		anomaly := &domain.Anomaly{
			Kind:      domain.AnomalyOrphanedDebit,
			Reference: reference,
			Details:   fmt.Sprintf("wallet %s debited %s but record failed: %v", in.UserID, totalDebit, err),
		}
		if recErr := s.anomalyRepo.Record(ctx, anomaly); recErr != nil {
			s.logger.Error().Err(recErr).Str("reference", reference).Msg("failed to record anomaly")
		}
		return nil, err
	}

	s.logger.Info().
		Str("reference", reference).
		Str("user_id", in.UserID.String()).
		Str("amount", in.Amount.String()).
		Str("fee", fee.String()).
		Str("new_balance", newBalance.String()).
		Msg("withdrawal completed")

	return &ports.WithdrawalResult{
		Reference:  reference,
		NewBalance: newBalance,
		Fee:        fee,
	}, nil
}
