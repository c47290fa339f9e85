package response

import (
	"errors"
	"net/http"

	"wallet-gateway/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the error body returned by every endpoint.
// Gateways and the mobile client both expect the flat {error} shape.
type ErrorResponse struct {
	Error string `json:"error"`
}

// OK sends a 200 response with the given body.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Error sends an error response. It checks if err is an *apperror.AppError
// and maps it to the corresponding status code, otherwise returns 500.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus, ErrorResponse{Error: appErr.Message})
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
}
