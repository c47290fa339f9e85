// Package paystack implements the Paystack transaction API and its webhook
// signature scheme.
package paystack

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"wallet-gateway/config"
	"wallet-gateway/internal/core/domain"
	"wallet-gateway/internal/core/ports"
	"wallet-gateway/pkg/apperror"
)

const (
	// GatewayName identifies this adapter in transactions and events.
	GatewayName = "paystack"

	// SignatureHeader carries the HMAC-SHA512 digest of the raw body.
	SignatureHeader = "x-paystack-signature"

	initializePath = "/transaction/initialize"
)

// Client talks to the Paystack REST API.
type Client struct {
	cfg        config.PaystackConfig
	httpClient *http.Client
}

// NewClient builds a Paystack client from config.
func NewClient(cfg config.PaystackConfig) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Name implements ports.GatewayClient.
func (c *Client) Name() string { return GatewayName }

type initializeRequest struct {
	Email       string `json:"email"`
	Amount      int64  `json:"amount"`
	Reference   string `json:"reference"`
	CallbackURL string `json:"callback_url,omitempty"`
}

type initializeResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

// Initiate creates a hosted checkout. Paystack expects amounts in kobo, so
// the major-unit total is scaled by 100 before sending.
func (c *Client) Initiate(ctx context.Context, req ports.InitiateRequest) (*ports.InitiateResult, error) {
	if c.cfg.SecretKey == "" {
		return nil, apperror.ErrMissingCredentials(GatewayName)
	}

	body, err := json.Marshal(initializeRequest{
		Email:       req.Email,
		Amount:      req.Amount.Mul(decimal.NewFromInt(100)).IntPart(),
		Reference:   req.Reference,
		CallbackURL: c.cfg.CallbackURL,
	})
	if err != nil {
		return nil, apperror.InternalError(err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+initializePath, bytes.NewReader(body))
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.SecretKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, apperror.ErrGatewayUnreachable(err)
	}
	defer resp.Body.Close()

	var out initializeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, apperror.ErrGatewayRejected(fmt.Sprintf("paystack: undecodable response (http %d)", resp.StatusCode))
	}
	if !out.Status {
		return nil, apperror.ErrGatewayRejected("paystack: " + out.Message)
	}
	if out.Data.AuthorizationURL == "" {
		return nil, apperror.ErrGatewayRejected("paystack: response missing authorization_url")
	}

	return &ports.InitiateResult{
		CheckoutURL: out.Data.AuthorizationURL,
		GatewayRef:  out.Data.AccessCode,
	}, nil
}

type webhookPayload struct {
	Event string `json:"event"`
	Data  struct {
		Reference string      `json:"reference"`
		Amount    json.Number `json:"amount"`
		Status    string      `json:"status"`
		Customer  struct {
			Email string `json:"email"`
		} `json:"customer"`
	} `json:"data"`
}

// ParseWebhook verifies the x-paystack-signature header, an HMAC-SHA512 of
// the raw body keyed with the secret key, and normalizes the payload.
func (c *Client) ParseWebhook(body []byte, header http.Header) (*domain.NormalizedEvent, error) {
	signature := header.Get(SignatureHeader)
	if signature == "" {
		return nil, apperror.ErrInvalidWebhookSignature()
	}
	if c.cfg.SecretKey == "" {
		return nil, apperror.ErrInvalidWebhookSignature()
	}

	mac := hmac.New(sha512.New, []byte(c.cfg.SecretKey))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(signature))) {
		return nil, apperror.ErrInvalidWebhookSignature()
	}

	var p webhookPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, apperror.Validation("malformed webhook body")
	}
	if p.Data.Reference == "" {
		return nil, apperror.Validation("webhook payload missing reference")
	}

	var status domain.GatewayStatus
	switch p.Event {
	case "charge.success":
		status = domain.GatewayStatusSuccess
	case "charge.failed":
		status = domain.GatewayStatusFailed
	default:
		status = domain.GatewayStatusOther
	}

	// Paystack reports amounts in kobo.
	var amount decimal.Decimal
	if p.Data.Amount != "" {
		kobo, err := decimal.NewFromString(p.Data.Amount.String())
		if err != nil {
			return nil, apperror.Validation("webhook payload has invalid amount")
		}
		amount = kobo.Div(decimal.NewFromInt(100))
	}

	return &domain.NormalizedEvent{
		Gateway:   GatewayName,
		Reference: p.Data.Reference,
		Status:    status,
		Amount:    amount,
		Email:     p.Data.Customer.Email,
	}, nil
}
