package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/renaldyr/gigtix/internal/models"
	"github.com/renaldyr/gigtix/pkg/apperrors"
	"gorm.io/gorm"
)

type EventRepository interface {
	// FindPublishedWithTicketTypes loads a purchasable event and its ticket
	// types in one read. Draft, archived and cancelled events are treated as
	// not found.
	FindPublishedWithTicketTypes(ctx context.Context, id uuid.UUID) (*models.Event, error)
}

type EventRepositoryImpl struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &EventRepositoryImpl{db: db}
}

func (r *EventRepositoryImpl) FindPublishedWithTicketTypes(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	var event models.Event
	err := r.db.WithContext(ctx).
		Preload("TicketTypes").
		Where("id = ? AND status = ?", id, models.EventStatusPublished).
		First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &event, nil
}
