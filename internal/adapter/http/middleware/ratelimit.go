package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"wallet-gateway/pkg/response"
)

// RateLimitStore counts requests per key within a fixed window.
type RateLimitStore interface {
	Increment(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RateLimiter rejects clients exceeding limit requests per window, keyed by
// client IP. A store failure lets the request through.
func RateLimiter(store RateLimitStore, limit int64, window time.Duration, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := store.Increment(c.Request.Context(), c.ClientIP(), window)
		if err != nil {
			logger.Warn().Err(err).Msg("rate limit store unavailable, allowing request")
			c.Next()
			return
		}

		if count > limit {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, response.ErrorResponse{
				Error: "Rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}
