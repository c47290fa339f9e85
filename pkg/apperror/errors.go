package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Validation (VAL) ----

func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}

func ErrInvalidAmount() *AppError {
	return New("VAL_002", "Invalid amount", http.StatusBadRequest)
}

func ErrAmountBelowMinimum(minimum string) *AppError {
	return New("VAL_003", fmt.Sprintf("Amount is below the minimum of %s", minimum), http.StatusBadRequest)
}

// ---- Authentication (AUTH) ----

func ErrInvalidToken() *AppError {
	return New("AUTH_001", "Invalid or expired token", http.StatusUnauthorized)
}

func ErrInvalidPin() *AppError {
	return New("AUTH_002", "Invalid transaction PIN", http.StatusUnauthorized)
}

// ---- Webhook authenticity (SEC) ----

func ErrInvalidWebhookSignature() *AppError {
	return New("SEC_001", "Invalid webhook signature", http.StatusUnauthorized)
}

// ---- Wallet business rules (PAY) ----

func ErrInsufficientBalance() *AppError {
	return New("PAY_001", "Insufficient wallet balance", http.StatusBadRequest)
}

func ErrNotFound(entity string) *AppError {
	return New("PAY_002", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ---- Gateway (GW) ----

func ErrGatewayRejected(message string) *AppError {
	return New("GW_001", fmt.Sprintf("Payment gateway rejected the request: %s", message), http.StatusBadGateway)
}

func ErrGatewayUnreachable(err error) *AppError {
	return Wrap("GW_002", "Payment gateway unreachable", http.StatusBadGateway, err)
}

func ErrUnknownGateway(name string) *AppError {
	return New("GW_003", fmt.Sprintf("Unknown payment gateway %q", name), http.StatusBadRequest)
}

// ---- Configuration (CFG) ----

func ErrMissingCredentials(gateway string) *AppError {
	return New("CFG_001", fmt.Sprintf("Missing %s gateway credentials", gateway), http.StatusInternalServerError)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Persistence (SYS) ----

// ErrPersistence marks a store write failure. When the failure happens after an
// irreversible side effect (gateway charge, wallet debit) the caller must also
// record a reconciliation anomaly; the client may never see this response.
func ErrPersistence(err error) *AppError {
	return Wrap("SYS_001", "Internal storage error", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_002 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_002", "Internal server error", http.StatusInternalServerError, err)
}
