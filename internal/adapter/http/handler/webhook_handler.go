package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"wallet-gateway/internal/core/ports"
	"wallet-gateway/pkg/apperror"
	"wallet-gateway/pkg/response"
)

// WebhookHandler receives gateway webhook deliveries. Transport problems
// (unreadable or malformed bodies) return 400 and bad signatures return 401
// so the gateway retries; business no-ops return 200 so it stops.
type WebhookHandler struct {
	gateway    ports.GatewayClient
	settlement ports.SettlementService
	logger     zerolog.Logger
}

// NewWebhookHandler creates a webhook handler for one gateway.
func NewWebhookHandler(gateway ports.GatewayClient, settlement ports.SettlementService, logger zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{
		gateway:    gateway,
		settlement: settlement,
		logger:     logger.With().Str("component", "webhook").Str("gateway", gateway.Name()).Logger(),
	}
}

// Handle handles POST /<gateway>-webhook.
func (h *WebhookHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.Error(c, apperror.Validation("unreadable request body"))
		return
	}

	event, err := h.gateway.ParseWebhook(body, c.Request.Header)
	if err != nil {
		h.logger.Warn().Err(err).Msg("webhook rejected")
		response.Error(c, err)
		return
	}

	if err := h.settlement.Settle(c.Request.Context(), event); err != nil {
		// A non-nil error is an internal failure. Responding 5xx makes the
		// gateway redeliver, and settlement is idempotent.
		h.logger.Error().Err(err).Str("reference", event.Reference).Msg("settlement failed")
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
