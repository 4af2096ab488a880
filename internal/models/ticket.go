package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TicketStatus string

const (
	TicketStatusValid TicketStatus = "valid"
	TicketStatusUsed  TicketStatus = "used"
	TicketStatusVoid  TicketStatus = "void"
)

// Ticket is one issued admission unit. Created only after its order is
// completed, immutable except for check-in.
type Ticket struct {
	gorm.Model
	ID           uuid.UUID    `gorm:"type:uuid;primary_key"`
	Code         string       `gorm:"not null;uniqueIndex"`
	Status       TicketStatus `gorm:"not null;default:'valid'"`
	CheckedInAt  *time.Time
	OrderID      uuid.UUID `gorm:"type:uuid;not null;index"`
	OrderItemID  uuid.UUID `gorm:"type:uuid;not null;index"`
	TicketTypeID uuid.UUID `gorm:"type:uuid;not null;index"`
	EventID      uuid.UUID `gorm:"type:uuid;not null;index"`
}

func (ticket *Ticket) BeforeCreate(tx *gorm.DB) (err error) {
	if ticket.ID == uuid.Nil {
		ticket.ID = uuid.New()
	}
	return
}
