package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"wallet-gateway/internal/adapter/http/dto"
	"wallet-gateway/internal/adapter/http/middleware"
	"wallet-gateway/internal/core/ports"
	"wallet-gateway/pkg/apperror"
	"wallet-gateway/pkg/response"
)

// WithdrawalHandler serves withdrawals for authenticated users.
type WithdrawalHandler struct {
	withdrawals ports.WithdrawalService
}

// NewWithdrawalHandler creates a withdrawal handler.
func NewWithdrawalHandler(withdrawals ports.WithdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{withdrawals: withdrawals}
}

// Withdraw handles POST /withdraw. JWTAuth must run before this handler.
func (h *WithdrawalHandler) Withdraw(c *gin.Context) {
	userID, ok := c.Value(middleware.ContextUserID).(uuid.UUID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation("amount, bank_code, account_number and account_name are required"))
		return
	}

	result, err := h.withdrawals.Withdraw(c.Request.Context(), ports.WithdrawalInput{
		UserID:        userID,
		Amount:        decimal.NewFromFloat(req.Amount),
		BankCode:      req.BankCode,
		AccountNumber: req.AccountNumber,
		AccountName:   req.AccountName,
		Pin:           req.Pin,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, result)
}
