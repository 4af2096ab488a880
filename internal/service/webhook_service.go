package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/renaldyr/gigtix/internal/models"
	"github.com/renaldyr/gigtix/internal/payment"
	"github.com/renaldyr/gigtix/internal/repository"
	"github.com/renaldyr/gigtix/pkg/apperrors"
	"go.uber.org/zap"
)

type WebhookService interface {
	// HandleInvoiceCallback processes one verified gateway callback. It never
	// returns an error for conditions the gateway cannot fix (unknown order,
	// issuance failure): those are logged and swallowed so the caller can
	// acknowledge with 200 and stop redelivery.
	HandleInvoiceCallback(ctx context.Context, cb payment.InvoiceCallback)
}

type WebhookServiceImpl struct {
	orders repository.OrderRepository
	issuer IssuerService
	logger *zap.Logger
}

func NewWebhookService(orders repository.OrderRepository, issuer IssuerService, logger *zap.Logger) WebhookService {
	return &WebhookServiceImpl{orders: orders, issuer: issuer, logger: logger}
}

func (s *WebhookServiceImpl) HandleInvoiceCallback(ctx context.Context, cb payment.InvoiceCallback) {
	orderID, err := uuid.Parse(cb.ExternalID)
	if err != nil {
		s.logger.Warn("callback with unparseable external id",
			zap.String("external_id", cb.ExternalID),
			zap.String("status", cb.Status))
		return
	}

	switch cb.Status {
	case payment.CallbackStatusPaid:
		s.handlePaid(ctx, orderID, cb)
	case payment.CallbackStatusExpired:
		s.handleExpired(ctx, orderID)
	default:
		// Acknowledged and ignored; only completion and expiry matter here.
	}
}

func (s *WebhookServiceImpl) handlePaid(ctx context.Context, orderID uuid.UUID, cb payment.InvoiceCallback) {
	order, err := s.orders.FindWithItems(ctx, orderID)
	if errors.Is(err, apperrors.ErrNotFound) {
		s.logger.Warn("paid callback for unknown order", zap.String("order_id", orderID.String()))
		return
	}
	if err != nil {
		s.logger.Error("failed to load order for paid callback",
			zap.String("order_id", orderID.String()),
			zap.Error(err))
		return
	}

	transitioned, err := s.orders.MarkCompleted(ctx, orderID, cb.PaymentIntentID())
	if err != nil {
		s.logger.Error("failed to complete order",
			zap.String("order_id", orderID.String()),
			zap.Error(err))
		return
	}
	if !transitioned {
		// Redelivery, or a concurrent delivery won the conditional update.
		// Issuance already ran (or is running) for this order.
		s.logger.Info("paid callback for non-pending order, skipping issuance",
			zap.String("order_id", orderID.String()))
		return
	}

	order.Status = models.OrderStatusCompleted
	order.PaymentIntentID = cb.PaymentIntentID()

	if err := s.issuer.Issue(ctx, order); err != nil {
		// The webhook still gets a 200; an under-ticketed completed order is
		// recovered by re-running issuance, which tops up the shortfall.
		s.logger.Error("ticket issuance failed",
			zap.String("order_id", orderID.String()),
			zap.Error(err))
	}
}

func (s *WebhookServiceImpl) handleExpired(ctx context.Context, orderID uuid.UUID) {
	transitioned, err := s.orders.MarkAbandoned(ctx, orderID)
	if err != nil {
		s.logger.Error("failed to abandon order",
			zap.String("order_id", orderID.String()),
			zap.Error(err))
		return
	}
	if transitioned {
		s.logger.Info("order abandoned after invoice expiry", zap.String("order_id", orderID.String()))
	}
}
