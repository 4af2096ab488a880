package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/renaldyr/gigtix/internal/models"
	"github.com/renaldyr/gigtix/pkg/apperrors"
	"gorm.io/gorm"
)

type OrderRepository interface {
	// CreateWithItems persists the order and all its line items in one
	// transaction; nothing is written if any row fails.
	CreateWithItems(ctx context.Context, order *models.Order) error
	SetPaymentSession(ctx context.Context, orderID uuid.UUID, sessionID string) error
	FindWithItems(ctx context.Context, id uuid.UUID) (*models.Order, error)
	// MarkCompleted transitions pending -> completed and stores the payment
	// intent id. The affected-row count is the serialization point for
	// webhook redelivery: false means another delivery already won.
	MarkCompleted(ctx context.Context, id uuid.UUID, paymentIntentID string) (bool, error)
	// MarkAbandoned transitions pending -> abandoned when the gateway expires
	// the unpaid invoice.
	MarkAbandoned(ctx context.Context, id uuid.UUID) (bool, error)
}

type OrderRepositoryImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &OrderRepositoryImpl{db: db}
}

func (r *OrderRepositoryImpl) CreateWithItems(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(order).Error
	})
}

func (r *OrderRepositoryImpl) SetPaymentSession(ctx context.Context, orderID uuid.UUID, sessionID string) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("payment_session_id", sessionID).Error
}

func (r *OrderRepositoryImpl) FindWithItems(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.TicketType").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepositoryImpl) MarkCompleted(ctx context.Context, id uuid.UUID, paymentIntentID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", id, models.OrderStatusPending).
		Updates(map[string]interface{}{
			"status":            models.OrderStatusCompleted,
			"payment_intent_id": paymentIntentID,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *OrderRepositoryImpl) MarkAbandoned(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", id, models.OrderStatusPending).
		Update("status", models.OrderStatusAbandoned)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
