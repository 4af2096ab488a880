package repository

import (
	"context"

	"github.com/renaldyr/gigtix/internal/models"
	"gorm.io/gorm"
)

type ShortfallRepository interface {
	Record(ctx context.Context, shortfall *models.InventoryShortfall) error
}

type ShortfallRepositoryImpl struct {
	db *gorm.DB
}

func NewShortfallRepository(db *gorm.DB) ShortfallRepository {
	return &ShortfallRepositoryImpl{db: db}
}

func (r *ShortfallRepositoryImpl) Record(ctx context.Context, shortfall *models.InventoryShortfall) error {
	return r.db.WithContext(ctx).Create(shortfall).Error
}
