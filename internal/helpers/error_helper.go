package helpers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/renaldyr/gigtix/pkg/apperrors"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func RespondWithError(c *gin.Context, statusCode int, customMessage string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: customMessage,
	})
}

// RespondWithAppError maps a pipeline error onto the API error taxonomy.
func RespondWithAppError(c *gin.Context, err error, customMessage string) {
	c.JSON(appErrorStatus(err), ErrorResponse{
		Error:   apperrors.Code(err),
		Message: customMessage,
	})
}

func appErrorStatus(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrInsufficientInventory):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrOversellConflict):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrInvalidSignature):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrPaymentGatewayTimeout),
		errors.Is(err, apperrors.ErrPaymentGateway):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
