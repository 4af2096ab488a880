package models

import (
	"time"

	"github.com/google/uuid"
)

// InventoryShortfall records a paid order that could not be fully ticketed
// because inventory ran out between the availability check and issuance.
// Rows here feed the refund-and-apology process; they are never deleted.
type InventoryShortfall struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primary_key"`
	OrderID      uuid.UUID `gorm:"type:uuid;not null;index"`
	TicketTypeID uuid.UUID `gorm:"type:uuid;not null;index"`
	Quantity     int       `gorm:"not null"`
	ResolvedAt   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
