package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"wallet-gateway/internal/adapter/http/middleware"
	"wallet-gateway/internal/core/ports"
)

// Request bodies larger than this are rejected before parsing.
const maxBodyBytes = 1 << 20

// RouterDeps carries everything the router wires together.
type RouterDeps struct {
	Deposit    *DepositHandler
	Withdrawal *WithdrawalHandler
	Webhooks   []*WebhookHandler
	Health     *HealthHandler
	Tokens     ports.TokenService
	// RateLimit is optional; nil disables rate limiting.
	RateLimit       middleware.RateLimitStore
	RateLimitMax    int64
	RateLimitWindow time.Duration
	Logger          zerolog.Logger
}

// NewRouter builds the gin engine with the full middleware chain and routes.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.Recovery(deps.Logger),
		middleware.RequestLogger(deps.Logger),
		middleware.MaxBodySize(maxBodyBytes),
	)
	if deps.RateLimit != nil {
		router.Use(middleware.RateLimiter(deps.RateLimit, deps.RateLimitMax, deps.RateLimitWindow, deps.Logger))
	}

	router.GET("/health", deps.Health.Check)
	router.POST("/deposit", deps.Deposit.Initiate)
	router.POST("/withdraw", middleware.JWTAuth(deps.Tokens), deps.Withdrawal.Withdraw)

	for _, wh := range deps.Webhooks {
		router.POST("/"+wh.gateway.Name()+"-webhook", wh.Handle)
	}

	return router
}
