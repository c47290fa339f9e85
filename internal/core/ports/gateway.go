package ports

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"wallet-gateway/internal/core/domain"
)

// InitiateRequest is the gateway-neutral input for starting a hosted checkout.
type InitiateRequest struct {
	Reference string
	Email     string
	// Amount is the total the customer pays, fee included, in major units.
	Amount decimal.Decimal
}

// InitiateResult is what a gateway returns for a successfully created checkout.
type InitiateResult struct {
	CheckoutURL string
	// GatewayRef is the gateway's own identifier for the checkout, empty
	// when the gateway does not expose one.
	GatewayRef string
}

// GatewayClient abstracts one payment gateway: creating checkouts and
// authenticating plus normalizing its webhook deliveries. Adapters own all
// wire formats, signature schemes and unit conversions; nothing
// gateway-specific leaks past this interface.
type GatewayClient interface {
	Name() string
	Initiate(ctx context.Context, req InitiateRequest) (*InitiateResult, error)
	// ParseWebhook verifies the delivery's authenticity and maps the payload
	// to a NormalizedEvent. It returns ErrInvalidWebhookSignature when
	// verification fails and a validation error when the body is malformed.
	ParseWebhook(body []byte, header http.Header) (*domain.NormalizedEvent, error)
}
