package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusFailed    OrderStatus = "failed"
	OrderStatusAbandoned OrderStatus = "abandoned"
)

// Order is one checkout attempt. It is created pending and transitioned to
// completed exactly once by the payment webhook; the transition is never
// reverted.
type Order struct {
	gorm.Model
	ID               uuid.UUID   `gorm:"type:uuid;primary_key"`
	Status           OrderStatus `gorm:"not null;default:'pending';index"`
	SubtotalCents    int64       `gorm:"not null"`
	FeeCents         int64       `gorm:"not null"`
	TotalCents       int64       `gorm:"not null"`
	Currency         string      `gorm:"not null"`
	PaymentSessionID string      `gorm:"index"`
	PaymentIntentID  string
	UserID           uuid.UUID `gorm:"type:uuid;not null;index"`
	User             User
	EventID          uuid.UUID `gorm:"type:uuid;not null;index"`
	Event            Event
	Items            []OrderItem
	Tickets          []Ticket
}

func (order *Order) BeforeCreate(tx *gorm.DB) (err error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	return
}
