package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/renaldyr/gigtix/config"
	"github.com/renaldyr/gigtix/internal/models"
	"github.com/renaldyr/gigtix/internal/payment"
)

func paidCallback(orderID uuid.UUID) payment.InvoiceCallback {
	return payment.InvoiceCallback{
		ID:         "inv_1",
		ExternalID: orderID.String(),
		Status:     payment.CallbackStatusPaid,
		PaymentID:  "pay_1",
	}
}

func TestWebhookService_HandleInvoiceCallback(t *testing.T) {
	t.Run("paid callback completes the order and issues tickets", func(t *testing.T) {
		orders := newFakeOrderRepo()
		issuer := &fakeIssuer{}
		svc := NewWebhookService(orders, issuer, zap.NewNop())

		order := &models.Order{ID: uuid.New(), Status: models.OrderStatusPending}
		orders.orders[order.ID] = order

		svc.HandleInvoiceCallback(context.Background(), paidCallback(order.ID))

		assert.Equal(t, models.OrderStatusCompleted, order.Status)
		assert.Equal(t, "pay_1", order.PaymentIntentID)
		require.Equal(t, 1, issuer.issued())
		assert.Equal(t, models.OrderStatusCompleted, issuer.orders[0].Status)
	})

	t.Run("redelivered paid callback issues exactly once", func(t *testing.T) {
		orders := newFakeOrderRepo()
		issuer := &fakeIssuer{}
		svc := NewWebhookService(orders, issuer, zap.NewNop())

		order := &models.Order{ID: uuid.New(), Status: models.OrderStatusPending}
		orders.orders[order.ID] = order

		cb := paidCallback(order.ID)
		svc.HandleInvoiceCallback(context.Background(), cb)
		svc.HandleInvoiceCallback(context.Background(), cb)
		svc.HandleInvoiceCallback(context.Background(), cb)

		assert.Equal(t, 1, issuer.issued())
	})

	t.Run("paid callback for unknown order is swallowed", func(t *testing.T) {
		orders := newFakeOrderRepo()
		issuer := &fakeIssuer{}
		svc := NewWebhookService(orders, issuer, zap.NewNop())

		svc.HandleInvoiceCallback(context.Background(), paidCallback(uuid.New()))

		assert.Zero(t, issuer.issued())
	})

	t.Run("unparseable external id is swallowed", func(t *testing.T) {
		orders := newFakeOrderRepo()
		issuer := &fakeIssuer{}
		svc := NewWebhookService(orders, issuer, zap.NewNop())

		svc.HandleInvoiceCallback(context.Background(), payment.InvoiceCallback{
			ID:         "inv_1",
			ExternalID: "not-a-uuid",
			Status:     payment.CallbackStatusPaid,
		})

		assert.Zero(t, issuer.issued())
	})

	t.Run("expired callback abandons a pending order", func(t *testing.T) {
		orders := newFakeOrderRepo()
		svc := NewWebhookService(orders, &fakeIssuer{}, zap.NewNop())

		order := &models.Order{ID: uuid.New(), Status: models.OrderStatusPending}
		orders.orders[order.ID] = order

		svc.HandleInvoiceCallback(context.Background(), payment.InvoiceCallback{
			ID:         "inv_1",
			ExternalID: order.ID.String(),
			Status:     payment.CallbackStatusExpired,
		})

		assert.Equal(t, models.OrderStatusAbandoned, order.Status)
	})

	t.Run("expired callback never touches a completed order", func(t *testing.T) {
		orders := newFakeOrderRepo()
		svc := NewWebhookService(orders, &fakeIssuer{}, zap.NewNop())

		order := &models.Order{ID: uuid.New(), Status: models.OrderStatusCompleted}
		orders.orders[order.ID] = order

		svc.HandleInvoiceCallback(context.Background(), payment.InvoiceCallback{
			ID:         "inv_1",
			ExternalID: order.ID.String(),
			Status:     payment.CallbackStatusExpired,
		})

		assert.Equal(t, models.OrderStatusCompleted, order.Status)
	})

	t.Run("unrelated statuses are ignored", func(t *testing.T) {
		orders := newFakeOrderRepo()
		issuer := &fakeIssuer{}
		svc := NewWebhookService(orders, issuer, zap.NewNop())

		order := &models.Order{ID: uuid.New(), Status: models.OrderStatusPending}
		orders.orders[order.ID] = order

		svc.HandleInvoiceCallback(context.Background(), payment.InvoiceCallback{
			ID:         "inv_1",
			ExternalID: order.ID.String(),
			Status:     "PENDING",
		})

		assert.Equal(t, models.OrderStatusPending, order.Status)
		assert.Zero(t, issuer.issued())
	})
}

// Full pipeline walk-through: two GA at $50 and one VIP at $25, paid, then
// the paid notification redelivered.
func TestFulfillmentPipeline(t *testing.T) {
	userID := uuid.New()
	user := &models.User{ID: userID, Email: "buyer@example.com"}

	ga := models.TicketType{ID: uuid.New(), Name: "GA", PriceCents: 5000, Quantity: 100, Available: 100}
	vip := models.TicketType{ID: uuid.New(), Name: "VIP", PriceCents: 2500, Quantity: 20, Available: 20}
	event := &models.Event{
		ID:          uuid.New(),
		Title:       "Jazz Night",
		Status:      models.EventStatusPublished,
		TicketTypes: []models.TicketType{ga, vip},
	}

	orders := newFakeOrderRepo()
	gateway := &fakeGateway{session: &payment.Session{ID: "inv_jazz", URL: "https://pay.example/inv_jazz"}}
	cfg := &config.CheckoutConfig{
		Currency:        "USD",
		FeeBasisPoints:  1000,
		InvoiceDuration: 30 * time.Minute,
		GatewayTimeout:  time.Second,
	}
	checkout := NewCheckoutService(&fakeEventRepo{event: event}, orders, &fakeUserRepo{user: user}, gateway, cfg, zap.NewNop())

	store := newFakeStore()
	store.available[ga.ID] = 100
	store.available[vip.ID] = 20
	issuer := newTestIssuer(store)
	webhook := NewWebhookService(orders, issuer, zap.NewNop())

	result, err := checkout.CreateSession(context.Background(), userID, CheckoutRequest{
		EventID: event.ID,
		Selections: map[uuid.UUID]int{
			ga.ID:  2,
			vip.ID: 1,
		},
	})
	require.NoError(t, err)

	order := orders.orders[result.OrderID]
	require.NotNil(t, order)
	assert.Equal(t, int64(12500), order.SubtotalCents)
	assert.Equal(t, int64(1250), order.FeeCents)
	assert.Equal(t, int64(13750), order.TotalCents)
	assert.Equal(t, models.OrderStatusPending, order.Status)

	cb := payment.InvoiceCallback{
		ID:         "inv_jazz",
		ExternalID: result.OrderID.String(),
		Status:     payment.CallbackStatusPaid,
		PaymentID:  "pay_jazz",
	}
	webhook.HandleInvoiceCallback(context.Background(), cb)

	assert.Equal(t, models.OrderStatusCompleted, order.Status)
	assert.Equal(t, 3, store.ticketCount())
	assert.Equal(t, 98, store.available[ga.ID])
	assert.Equal(t, 19, store.available[vip.ID])

	// Redelivery changes nothing.
	webhook.HandleInvoiceCallback(context.Background(), cb)
	assert.Equal(t, 3, store.ticketCount())
	assert.Equal(t, 98, store.available[ga.ID])
	assert.Equal(t, 19, store.available[vip.ID])
}
