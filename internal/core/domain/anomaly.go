package domain

import (
	"time"

	"github.com/google/uuid"
)

// AnomalyKind classifies reconciliation anomalies that need manual review.
type AnomalyKind string

const (
	// AnomalyUnmatchedReference: a webhook arrived for a reference with no
	// stored transaction. Acknowledged to the gateway, flagged here.
	AnomalyUnmatchedReference AnomalyKind = "unmatched_reference"
	// AnomalyAmountMismatch: the gateway-reported amount disagrees with the
	// stored transaction amount. No mutation is performed.
	AnomalyAmountMismatch AnomalyKind = "amount_mismatch"
	// AnomalyOrphanedDebit: a wallet was debited but the withdrawal
	// transaction could not be recorded.
	AnomalyOrphanedDebit AnomalyKind = "orphaned_debit"
	// AnomalyOrphanedCheckout: the gateway issued a checkout URL but the
	// pending transaction could not be recorded.
	AnomalyOrphanedCheckout AnomalyKind = "orphaned_checkout"
)

// Anomaly records a money-affecting inconsistency between this service,
// its stores and a payment gateway. Anomalies are persisted and logged
// loudly; resolving them is an operational concern.
type Anomaly struct {
	ID        uuid.UUID   `json:"id"`
	Kind      AnomalyKind `json:"kind"`
	Reference string      `json:"reference"`
	Gateway   string      `json:"gateway,omitempty"`
	Details   string      `json:"details,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}
