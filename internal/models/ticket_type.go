package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TicketType is a priced admission category with finite inventory. Available
// only ever moves down, and only through the issuance pipeline's conditional
// update; 0 <= Available <= Quantity holds at all times.
type TicketType struct {
	gorm.Model
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	Name       string    `gorm:"not null"`
	PriceCents int64     `gorm:"not null"`
	Quantity   int       `gorm:"not null"`
	Available  int       `gorm:"not null"`
	EventID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Event      Event
}

func (tt *TicketType) BeforeCreate(tx *gorm.DB) (err error) {
	if tt.ID == uuid.Nil {
		tt.ID = uuid.New()
	}
	return
}
