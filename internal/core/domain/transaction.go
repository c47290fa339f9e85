package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionKind represents the direction of money movement.
type TransactionKind string

const (
	TransactionKindDeposit    TransactionKind = "deposit"
	TransactionKindWithdrawal TransactionKind = "withdrawal"
)

// TransactionStatus represents the lifecycle state of a transaction.
// pending is the only non-terminal state; success and failed are terminal
// and must never be overwritten by a later conflicting event.
type TransactionStatus string

const (
	TransactionStatusPending TransactionStatus = "pending"
	TransactionStatusSuccess TransactionStatus = "success"
	TransactionStatusFailed  TransactionStatus = "failed"
)

// Meta keys used across deposits and withdrawals.
const (
	MetaFee           = "fee"
	MetaMethod        = "method"
	MetaGateway       = "gateway"
	MetaCheckoutTotal = "checkout_total"
	MetaBankCode      = "bank_code"
	MetaAccountNumber = "account_number"
	MetaAccountName   = "account_name"
	MetaGatewayRef    = "gateway_ref"
)

// Transaction correlates a client-initiated deposit or withdrawal with its
// eventual settlement. Reference is the primary correlation key between
// initiation and the gateway webhook; it is generated once and never changes.
type Transaction struct {
	ID        uuid.UUID         `json:"id"`
	Reference string            `json:"reference"`
	UserID    *uuid.UUID        `json:"user_id,omitempty"` // nil when only the email is known
	Email     string            `json:"email"`
	Amount    decimal.Decimal   `json:"amount"` // wallet-affecting amount, fee excluded
	Kind      TransactionKind   `json:"kind"`
	Status    TransactionStatus `json:"status"`
	Gateway   string            `json:"gateway"`
	Meta      map[string]any    `json:"meta,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// IsTerminal returns true if the transaction is in a final state.
func (t *Transaction) IsTerminal() bool {
	return t.Status == TransactionStatusSuccess || t.Status == TransactionStatusFailed
}

// NewDepositReference generates a globally unique deposit reference.
func NewDepositReference() string {
	return "DEP-" + uuid.NewString()
}

// NewWithdrawalReference generates a globally unique withdrawal reference.
func NewWithdrawalReference() string {
	return "WD-" + uuid.NewString()
}
