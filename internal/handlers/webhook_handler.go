package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/renaldyr/gigtix/internal/helpers"
	"github.com/renaldyr/gigtix/internal/payment"
	"github.com/renaldyr/gigtix/internal/service"
)

type WebhookHandler struct {
	callbackToken string
	webhooks      service.WebhookService
	logger        *zap.Logger
}

func NewWebhookHandler(callbackToken string, webhooks service.WebhookService, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		callbackToken: callbackToken,
		webhooks:      webhooks,
		logger:        logger,
	}
}

// HandleInvoiceCallback receives gateway notifications. Rejection with a
// non-2xx status is reserved for requests that fail token verification;
// anything verified gets a 200 so the gateway stops redelivering.
func (h *WebhookHandler) HandleInvoiceCallback(c *gin.Context) {
	token := c.GetHeader("x-callback-token")
	if !payment.VerifyCallbackToken(token, h.callbackToken) {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid callback token.")
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Failed to read request body.")
		return
	}

	var callback payment.InvoiceCallback
	if err := json.Unmarshal(body, &callback); err != nil {
		// Verified but malformed. Redelivering the same body cannot help.
		h.logger.Warn("malformed invoice callback", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	h.webhooks.HandleInvoiceCallback(c.Request.Context(), callback)

	c.JSON(http.StatusOK, gin.H{"received": true})
}
