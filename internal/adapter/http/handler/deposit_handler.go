// Package handler implements the HTTP endpoints.
package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"wallet-gateway/internal/adapter/http/dto"
	"wallet-gateway/internal/core/ports"
	"wallet-gateway/pkg/apperror"
	"wallet-gateway/pkg/response"
)

// DepositHandler serves deposit initiation.
type DepositHandler struct {
	deposits ports.DepositService
}

// NewDepositHandler creates a deposit handler.
func NewDepositHandler(deposits ports.DepositService) *DepositHandler {
	return &DepositHandler{deposits: deposits}
}

// Initiate handles POST /deposit.
func (h *DepositHandler) Initiate(c *gin.Context) {
	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation("amount, email and method are required"))
		return
	}

	result, err := h.deposits.Initiate(c.Request.Context(), ports.DepositInput{
		Email:   req.Email,
		Amount:  decimal.NewFromFloat(req.Amount),
		Method:  req.Method,
		Gateway: req.Gateway,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, result)
}
