package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"wallet-gateway/internal/core/domain"
	"wallet-gateway/internal/core/ports"
	"wallet-gateway/pkg/apperror"
)

// SettlementSvc applies verified gateway events to stored transactions and
// wallets. The pending-to-terminal status transition is a database
// compare-and-set performed in the same transaction as the wallet credit,
// so a reference settles exactly once no matter how many times, or how
// concurrently, the gateway delivers its webhook.
type SettlementSvc struct {
	txRepo      ports.TransactionRepository
	walletRepo  ports.WalletRepository
	profileRepo ports.ProfileRepository
	anomalyRepo ports.AnomalyRepository
	transactor  ports.DBTransactor
	logger      zerolog.Logger
}

// NewSettlementSvc creates a settlement service.
func NewSettlementSvc(
	txRepo ports.TransactionRepository,
	walletRepo ports.WalletRepository,
	profileRepo ports.ProfileRepository,
	anomalyRepo ports.AnomalyRepository,
	transactor ports.DBTransactor,
	logger zerolog.Logger,
) *SettlementSvc {
	return &SettlementSvc{
		txRepo:      txRepo,
		walletRepo:  walletRepo,
		profileRepo: profileRepo,
		anomalyRepo: anomalyRepo,
		transactor:  transactor,
		logger:      logger.With().Str("component", "settlement").Logger(),
	}
}

// Settle implements ports.SettlementService. A nil return means the event
// was consumed and the gateway should be acknowledged; events that change
// nothing (duplicates, unknown references, unrecognized statuses) are still
// consumed.
func (s *SettlementSvc) Settle(ctx context.Context, event *domain.NormalizedEvent) error {
	log := s.logger.With().
		Str("gateway", event.Gateway).
		Str("reference", event.Reference).
		Logger()

	if event.Status == domain.GatewayStatusOther {
		log.Debug().Msg("ignoring event with unrecognized status")
		return nil
	}

	tx, err := s.txRepo.GetByReference(ctx, event.Reference)
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.HTTPStatus == http.StatusNotFound {
			log.Warn().Msg("webhook for unknown reference")
			s.recordAnomaly(ctx, domain.AnomalyUnmatchedReference, event,
				"webhook received for a reference with no stored transaction")
			return nil
		}
		return err
	}

	if tx.IsTerminal() {
		log.Info().Str("status", string(tx.Status)).Msg("transaction already settled")
		return nil
	}

	if event.HasAmount() && !event.Amount.Equal(s.expectedCharge(tx)) {
		log.Warn().
			Str("reported", event.Amount.String()).
			Str("expected", s.expectedCharge(tx).String()).
			Msg("gateway amount disagrees with stored transaction")
		s.recordAnomaly(ctx, domain.AnomalyAmountMismatch, event,
			fmt.Sprintf("gateway reported %s, expected %s", event.Amount, s.expectedCharge(tx)))
		return nil
	}

	status := domain.TransactionStatusFailed
	if event.Status == domain.GatewayStatusSuccess {
		status = domain.TransactionStatusSuccess
	}

	var userID uuid.UUID
	if status == domain.TransactionStatusSuccess {
		userID, err = s.resolveUser(ctx, tx)
		if err != nil {
			var appErr *apperror.AppError
			if errors.As(err, &appErr) && appErr.HTTPStatus == http.StatusNotFound {
				log.Warn().Str("email", tx.Email).Msg("no profile for settled transaction")
				s.recordAnomaly(ctx, domain.AnomalyUnmatchedReference, event,
					"settled transaction has no matching profile for "+tx.Email)
				return nil
			}
			return err
		}
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.ErrPersistence(fmt.Errorf("beginning settlement transaction: %w", err))
	}
	defer dbTx.Rollback(ctx)

	won, err := s.txRepo.MarkSettled(ctx, dbTx, tx.Reference, status)
	if err != nil {
		return err
	}
	if !won {
		log.Info().Msg("concurrent delivery already settled this reference")
		return nil
	}

	var newBalance decimal.Decimal
	if status == domain.TransactionStatusSuccess {
		newBalance, err = s.walletRepo.Credit(ctx, dbTx, userID, tx.Amount)
		if err != nil {
			return err
		}
	}

	if err := dbTx.Commit(ctx); err != nil {
		return apperror.ErrPersistence(fmt.Errorf("committing settlement: %w", err))
	}

	evt := log.Info().Str("status", string(status))
	if status == domain.TransactionStatusSuccess {
		evt = evt.Str("credited", tx.Amount.String()).Str("new_balance", newBalance.String())
	}
	evt.Msg("transaction settled")
	return nil
}

// expectedCharge is the amount the gateway should report: the checkout total
// recorded at initiation, falling back to the wallet amount for records
// without one.
func (s *SettlementSvc) expectedCharge(tx *domain.Transaction) decimal.Decimal {
	if raw, ok := tx.Meta[domain.MetaCheckoutTotal].(string); ok {
		if total, err := decimal.NewFromString(raw); err == nil {
			return total
		}
	}
	return tx.Amount
}

func (s *SettlementSvc) resolveUser(ctx context.Context, tx *domain.Transaction) (uuid.UUID, error) {
	if tx.UserID != nil {
		return *tx.UserID, nil
	}
	profile, err := s.profileRepo.GetByEmail(ctx, tx.Email)
	if err != nil {
		return uuid.Nil, err
	}
	return profile.ID, nil
}

func (s *SettlementSvc) recordAnomaly(ctx context.Context, kind domain.AnomalyKind, event *domain.NormalizedEvent, details string) {
	anomaly := &domain.Anomaly{
		Kind:      kind,
		Reference: event.Reference,
		Gateway:   event.Gateway,
		Details:   details,
	}
	if err := s.anomalyRepo.Record(ctx, anomaly); err != nil {
		s.logger.Error().Err(err).
			Str("reference", event.Reference).
			Str("kind", string(kind)).
			Msg("failed to record anomaly")
	}
}
