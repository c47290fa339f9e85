// Package opay implements the OPay cashier checkout API and its webhook
// signature scheme.
package opay

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
	GatewayName = "opay"

	cashierCreatePath = "/api/v1/international/cashier/create"
	successCode       = "00000"
)

// Client talks to the OPay international cashier API.
type Client struct {
	cfg        config.OPayConfig
	httpClient *http.Client
}

// NewClient builds an OPay client from config.
func NewClient(cfg config.OPayConfig) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Name implements ports.GatewayClient.
func (c *Client) Name() string { return GatewayName }

type cashierAmount struct {
	Total    int64  `json:"total"`
	Currency string `json:"currency"`
}

type cashierUserInfo struct {
	UserEmail string `json:"userEmail"`
	UserID    string `json:"userId"`
}

type cashierCreateRequest struct {
	Country     string          `json:"country"`
	Reference   string          `json:"reference"`
	Amount      cashierAmount   `json:"amount"`
	ReturnURL   string          `json:"returnUrl"`
	CallbackURL string          `json:"callbackUrl"`
	CancelURL   string          `json:"cancelUrl"`
	UserInfo    cashierUserInfo `json:"userInfo"`
	ProductName string          `json:"productName"`
	ProductDesc string          `json:"productDesc"`
	ExpireAt    int             `json:"expireAt"`
}

type cashierCreateResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    struct {
		CashierURL string `json:"cashierUrl"`
		OrderNo    string `json:"orderNo"`
		Reference  string `json:"reference"`
	} `json:"data"`
}

// Initiate creates a hosted cashier checkout. OPay expects amounts in minor
// units, so the major-unit total is scaled by 100 before sending.
func (c *Client) Initiate(ctx context.Context, req ports.InitiateRequest) (*ports.InitiateResult, error) {
	if c.cfg.PublicKey == "" || c.cfg.MerchantID == "" {
		return nil, apperror.ErrMissingCredentials(GatewayName)
	}

	payload := cashierCreateRequest{
		Country:   c.cfg.Country,
		Reference: req.Reference,
		Amount: cashierAmount{
			Total:    req.Amount.Mul(decimal.NewFromInt(100)).IntPart(),
			Currency: c.cfg.Currency,
		},
		ReturnURL:   c.cfg.ReturnURL,
		CallbackURL: c.cfg.CallbackURL,
		CancelURL:   c.cfg.CancelURL,
		UserInfo:    cashierUserInfo{UserEmail: req.Email, UserID: req.Email},
		ProductName: "Wallet funding",
		ProductDesc: "Wallet funding " + req.Reference,
		ExpireAt:    30,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, apperror.InternalError(err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+cashierCreatePath, bytes.NewReader(body))
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.PublicKey)
	httpReq.Header.Set("MerchantId", c.cfg.MerchantID)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, apperror.ErrGatewayUnreachable(err)
	}
	defer resp.Body.Close()

	var out cashierCreateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, apperror.ErrGatewayRejected(fmt.Sprintf("opay: undecodable response (http %d)", resp.StatusCode))
	}
	if out.Code != successCode {
		return nil, apperror.ErrGatewayRejected(fmt.Sprintf("opay: %s (code %s)", out.Message, out.Code))
	}
	if out.Data.CashierURL == "" {
		return nil, apperror.ErrGatewayRejected("opay: response missing cashierUrl")
	}

	return &ports.InitiateResult{
		CheckoutURL: out.Data.CashierURL,
		GatewayRef:  out.Data.OrderNo,
	}, nil
}

type webhookEnvelope struct {
	Payload json.RawMessage `json:"payload"`
	SHA512  string          `json:"sha512"`
}

// ParseWebhook verifies the envelope's HMAC-SHA512 signature and normalizes
// the payload. OPay signs the JSON serialization of the payload with its
// keys in sorted order, so the payload is re-marshalled through a map before
// computing the expected digest.
func (c *Client) ParseWebhook(body []byte, _ http.Header) (*domain.NormalizedEvent, error) {
	var env webhookEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, apperror.Validation("malformed webhook body")
	}
	if len(env.Payload) == 0 || env.SHA512 == "" {
		return nil, apperror.Validation("webhook body missing payload or signature")
	}

	// No secret means no way to verify. Reject rather than trust.
	if c.cfg.SecretKey == "" {
		return nil, apperror.ErrInvalidWebhookSignature()
	}

	canonical, err := canonicalJSON(env.Payload)
	if err != nil {
		return nil, apperror.Validation("malformed webhook payload")
	}

	mac := hmac.New(sha512.New, []byte(c.cfg.SecretKey))
	mac.Write(canonical)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(env.SHA512))) {
		return nil, apperror.ErrInvalidWebhookSignature()
	}

	return normalizePayload(env.Payload)
}

// canonicalJSON re-encodes a JSON object with its keys sorted. Numbers pass
// through as json.Number so their literal form survives the round trip, and
// HTML escaping is disabled so `&`, `<` and `>` stay literal, matching what
// OPay signs.
func canonicalJSON(raw json.RawMessage) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(m); err != nil {
		return nil, err
	}
	// Encode appends a newline the signature does not cover.
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

type webhookPayload struct {
	Reference  string      `json:"reference"`
	OutTradeNo string      `json:"outTradeNo"`
	Status     string      `json:"status"`
	Amount     json.Number `json:"amount"`
	UserEmail  string      `json:"userEmail"`
	Currency   string      `json:"currency"`
}

func normalizePayload(raw json.RawMessage) (*domain.NormalizedEvent, error) {
	var p webhookPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, apperror.Validation("malformed webhook payload")
	}

	reference := p.Reference
	if reference == "" {
		reference = p.OutTradeNo
	}
	if reference == "" {
		return nil, apperror.Validation("webhook payload missing reference")
	}

	var status domain.GatewayStatus
	switch strings.ToUpper(p.Status) {
	case "SUCCESS":
		status = domain.GatewayStatusSuccess
	case "FAIL", "FAILED", "CLOSE":
		status = domain.GatewayStatusFailed
	default:
		status = domain.GatewayStatusOther
	}

	// OPay reports amounts in minor units.
	var amount decimal.Decimal
	if p.Amount != "" {
		minor, err := decimal.NewFromString(p.Amount.String())
		if err != nil {
			return nil, apperror.Validation("webhook payload has invalid amount")
		}
		amount = minor.Div(decimal.NewFromInt(100))
	}

	return &domain.NormalizedEvent{
		Gateway:   GatewayName,
		Reference: reference,
		Status:    status,
		Amount:    amount,
		Email:     p.UserEmail,
	}, nil
}
