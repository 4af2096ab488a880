package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/renaldyr/gigtix/internal/models"
	"github.com/renaldyr/gigtix/pkg/apperrors"
	"gorm.io/gorm"
)

type TicketRepository interface {
	// Create inserts one ticket. A code collision surfaces as
	// gorm.ErrDuplicatedKey via the unique index; callers retry with a fresh
	// code.
	Create(ctx context.Context, tx *gorm.DB, ticket *models.Ticket) error
	CountForOrderItem(ctx context.Context, tx *gorm.DB, orderItemID uuid.UUID) (int64, error)
	FindByCode(ctx context.Context, code string) (*models.Ticket, error)
	// CheckIn transitions valid -> used and stamps the check-in time. False
	// means the ticket was already used or void.
	CheckIn(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
}

type TicketRepositoryImpl struct {
	db *gorm.DB
}

func NewTicketRepository(db *gorm.DB) TicketRepository {
	return &TicketRepositoryImpl{db: db}
}

func (r *TicketRepositoryImpl) Create(ctx context.Context, tx *gorm.DB, ticket *models.Ticket) error {
	return tx.WithContext(ctx).Create(ticket).Error
}

func (r *TicketRepositoryImpl) CountForOrderItem(ctx context.Context, tx *gorm.DB, orderItemID uuid.UUID) (int64, error) {
	var count int64
	err := tx.WithContext(ctx).
		Model(&models.Ticket{}).
		Where("order_item_id = ?", orderItemID).
		Count(&count).Error
	return count, err
}

func (r *TicketRepositoryImpl) FindByCode(ctx context.Context, code string) (*models.Ticket, error) {
	var ticket models.Ticket
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&ticket).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

func (r *TicketRepositoryImpl) CheckIn(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Ticket{}).
		Where("id = ? AND status = ?", id, models.TicketStatusValid).
		Updates(map[string]interface{}{
			"status":        models.TicketStatusUsed,
			"checked_in_at": at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
