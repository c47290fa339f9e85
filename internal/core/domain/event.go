package domain

import "github.com/shopspring/decimal"

// GatewayStatus is the normalized outcome reported by a gateway webhook.
// Payload shapes the adapters do not recognize map to GatewayStatusOther
// and are ignored by settlement.
type GatewayStatus string

const (
	GatewayStatusSuccess GatewayStatus = "success"
	GatewayStatusFailed  GatewayStatus = "failed"
	GatewayStatusOther   GatewayStatus = "other"
)

// NormalizedEvent is a gateway webhook mapped into gateway-neutral form.
// The settlement engine consumes only this type and never branches on
// gateway identity.
type NormalizedEvent struct {
	Gateway   string
	Reference string
	Status    GatewayStatus
	// Amount is the gateway-reported amount in major units, zero when the
	// payload does not carry one. Settlement cross-checks it against the
	// stored transaction amount when present.
	Amount decimal.Decimal
	Email  string
}

// HasAmount reports whether the gateway included an amount to cross-check.
func (e *NormalizedEvent) HasAmount() bool {
	return !e.Amount.IsZero()
}
