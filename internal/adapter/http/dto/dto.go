// Package dto defines the request bodies accepted by the HTTP surface.
package dto

// DepositRequest initiates a wallet funding checkout.
type DepositRequest struct {
	Amount  float64 `json:"amount" binding:"required"`
	Email   string  `json:"email" binding:"required"`
	Method  string  `json:"method" binding:"required"`
	Gateway string  `json:"gateway"`
}

// WithdrawRequest debits the authenticated user's wallet for a transfer.
type WithdrawRequest struct {
	Amount        float64 `json:"amount" binding:"required"`
	BankCode      string  `json:"bank_code" binding:"required"`
	AccountNumber string  `json:"account_number" binding:"required"`
	AccountName   string  `json:"account_name" binding:"required"`
	Pin           string  `json:"pin"`
}
