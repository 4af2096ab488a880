package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/renaldyr/gigtix/internal/models"
	"gorm.io/gorm"
)

type TicketTypeRepository interface {
	// DecrementAvailable performs the atomic floor-checked decrement:
	// UPDATE ... SET available = available - qty WHERE available >= qty.
	// It returns false when no row qualified, which is the oversell signal.
	DecrementAvailable(ctx context.Context, tx *gorm.DB, id uuid.UUID, quantity int) (bool, error)
}

type TicketTypeRepositoryImpl struct {
	db *gorm.DB
}

func NewTicketTypeRepository(db *gorm.DB) TicketTypeRepository {
	return &TicketTypeRepositoryImpl{db: db}
}

func (r *TicketTypeRepositoryImpl) DecrementAvailable(ctx context.Context, tx *gorm.DB, id uuid.UUID, quantity int) (bool, error) {
	result := tx.WithContext(ctx).
		Model(&models.TicketType{}).
		Where("id = ? AND available >= ?", id, quantity).
		UpdateColumn("available", gorm.Expr("available - ?", quantity))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
