package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/renaldyr/gigtix/internal/payment"
)

type stubWebhookService struct {
	callbacks []payment.InvoiceCallback
}

func (s *stubWebhookService) HandleInvoiceCallback(ctx context.Context, cb payment.InvoiceCallback) {
	s.callbacks = append(s.callbacks, cb)
}

func webhookRouter(svc *stubWebhookService, token string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/v1/webhooks/payment", NewWebhookHandler(token, svc, zap.NewNop()).HandleInvoiceCallback)
	return r
}

func TestHandleInvoiceCallback(t *testing.T) {
	const token = "callback-secret"
	body := `{"id":"inv_1","external_id":"3f0c54a1-95a2-4c6e-bb1d-1d2f6a9f2e10","status":"PAID","payment_id":"pay_1"}`

	t.Run("verified callback reaches the service and gets a 200", func(t *testing.T) {
		svc := &stubWebhookService{}
		r := webhookRouter(svc, token)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/webhooks/payment", strings.NewReader(body))
		req.Header.Set("x-callback-token", token)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		require.Len(t, svc.callbacks, 1)
		assert.Equal(t, "3f0c54a1-95a2-4c6e-bb1d-1d2f6a9f2e10", svc.callbacks[0].ExternalID)
		assert.Equal(t, payment.CallbackStatusPaid, svc.callbacks[0].Status)
	})

	t.Run("missing token is rejected before the service", func(t *testing.T) {
		svc := &stubWebhookService{}
		r := webhookRouter(svc, token)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/webhooks/payment", strings.NewReader(body))
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, svc.callbacks)
	})

	t.Run("wrong token is rejected before the service", func(t *testing.T) {
		svc := &stubWebhookService{}
		r := webhookRouter(svc, token)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/webhooks/payment", strings.NewReader(body))
		req.Header.Set("x-callback-token", "forged")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, svc.callbacks)
	})

	t.Run("verified but malformed body still gets a 200", func(t *testing.T) {
		svc := &stubWebhookService{}
		r := webhookRouter(svc, token)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/webhooks/payment", strings.NewReader(`{"id":`))
		req.Header.Set("x-callback-token", token)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, svc.callbacks)
	})
}
