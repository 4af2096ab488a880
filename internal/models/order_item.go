package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderItem snapshots the unit price at purchase time so later price changes
// on the ticket type never alter historical orders.
type OrderItem struct {
	gorm.Model
	ID             uuid.UUID `gorm:"type:uuid;primary_key"`
	Quantity       int       `gorm:"not null"`
	UnitPriceCents int64     `gorm:"not null"`
	OrderID        uuid.UUID `gorm:"type:uuid;not null;index"`
	TicketTypeID   uuid.UUID `gorm:"type:uuid;not null;index"`
	TicketType     TicketType
}

func (item *OrderItem) BeforeCreate(tx *gorm.DB) (err error) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	return
}
