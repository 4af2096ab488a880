package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/renaldyr/gigtix/internal/helpers"
	"github.com/renaldyr/gigtix/internal/service"
	"github.com/renaldyr/gigtix/pkg/apperrors"
)

type CheckoutHandler struct {
	checkout service.CheckoutService
}

func NewCheckoutHandler(checkout service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

type CheckoutRequest struct {
	EventID          uuid.UUID         `json:"eventId" binding:"required"`
	TicketSelections map[uuid.UUID]int `json:"ticketSelections" binding:"required"`
}

func (h *CheckoutHandler) CreateCheckoutSession(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User not authenticated.")
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid request payload.")
		return
	}

	result, err := h.checkout.CreateSession(c.Request.Context(), userID.(uuid.UUID), service.CheckoutRequest{
		EventID:    req.EventID,
		Selections: req.TicketSelections,
	})
	if err != nil {
		var shortageErr *service.InsufficientInventoryError
		if errors.As(err, &shortageErr) {
			c.JSON(http.StatusConflict, gin.H{
				"error":     apperrors.Code(err),
				"message":   "Not enough tickets available.",
				"shortages": shortageErr.Shortages,
			})
			return
		}
		helpers.RespondWithAppError(c, err, "Failed to create checkout session.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orderId":   result.OrderID,
		"sessionId": result.SessionID,
		"url":       result.URL,
	})
}
