// Package service implements the core business logic behind the HTTP surface.
package service

import (
	"github.com/shopspring/decimal"

	"wallet-gateway/config"
	"wallet-gateway/pkg/apperror"
)

// Funding methods accepted on deposit initiation.
const (
	MethodCard         = "card"
	MethodBankTransfer = "bank_transfer"
)

// FeeSchedule computes gateway fees from the configured rates. All amounts
// are in major currency units.
type FeeSchedule struct {
	cardRate        decimal.Decimal
	cardCap         decimal.Decimal
	bankTransferFee decimal.Decimal
	withdrawalFee   decimal.Decimal
}

// NewFeeSchedule builds a fee schedule from payment config.
func NewFeeSchedule(cfg config.PaymentsConfig) *FeeSchedule {
	return &FeeSchedule{
		cardRate:        decimal.NewFromFloat(cfg.CardFeeRate),
		cardCap:         decimal.NewFromFloat(cfg.CardFeeCap),
		bankTransferFee: decimal.NewFromFloat(cfg.BankTransferFee),
		withdrawalFee:   decimal.NewFromFloat(cfg.WithdrawalFee),
	}
}

// DepositFee returns the fee for funding amount with the given method.
// Card deposits pay a percentage capped at a fixed maximum; bank transfers
// pay a flat fee.
func (f *FeeSchedule) DepositFee(method string, amount decimal.Decimal) (decimal.Decimal, error) {
	switch method {
	case MethodCard:
		fee := amount.Mul(f.cardRate).Round(2)
		if fee.GreaterThan(f.cardCap) {
			fee = f.cardCap
		}
		return fee, nil
	case MethodBankTransfer:
		return f.bankTransferFee, nil
	default:
		return decimal.Zero, apperror.Validation("unknown funding method " + method)
	}
}

// WithdrawalFee returns the flat fee charged on withdrawals.
func (f *FeeSchedule) WithdrawalFee() decimal.Decimal {
	return f.withdrawalFee
}
