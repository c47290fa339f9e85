package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"wallet-gateway/internal/core/domain"
)

// DepositInput is a client's request to fund a wallet.
type DepositInput struct {
	Email   string
	Amount  decimal.Decimal
	Method  string // "card" or "bank_transfer"
	Gateway string // optional, defaults from config
}

// DepositResult carries what the client needs to complete payment.
type DepositResult struct {
	Reference   string          `json:"reference"`
	CheckoutURL string          `json:"checkout_url"`
	Fee         decimal.Decimal `json:"fee"`
	Total       decimal.Decimal `json:"total"`
}

// DepositService initiates deposits against a payment gateway.
type DepositService interface {
	Initiate(ctx context.Context, in DepositInput) (*DepositResult, error)
}

// SettlementService applies verified gateway events to transactions and
// wallets, exactly once per reference.
type SettlementService interface {
	Settle(ctx context.Context, event *domain.NormalizedEvent) error
}

// WithdrawalInput is an authenticated user's request to move funds out.
type WithdrawalInput struct {
	UserID        uuid.UUID
	Amount        decimal.Decimal
	BankCode      string
	AccountNumber string
	AccountName   string
	Pin           string
}

// WithdrawalResult reports the outcome of a completed debit.
type WithdrawalResult struct {
	Reference  string          `json:"reference"`
	NewBalance decimal.Decimal `json:"new_balance"`
	Fee        decimal.Decimal `json:"fee"`
}

// WithdrawalService debits wallets for outbound transfers.
type WithdrawalService interface {
	Withdraw(ctx context.Context, in WithdrawalInput) (*WithdrawalResult, error)
}

// TokenClaims is the identity carried by an access token.
type TokenClaims struct {
	UserID uuid.UUID
	Email  string
}

// TokenService issues and validates access tokens for the withdrawal surface.
type TokenService interface {
	Generate(userID uuid.UUID, email string) (string, error)
	Validate(token string) (*TokenClaims, error)
}

// PinHasher hashes and verifies transaction PINs.
type PinHasher interface {
	Hash(pin string) (string, error)
	Verify(pin, encoded string) (bool, error)
}
