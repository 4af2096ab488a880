package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusPublished EventStatus = "published"
	EventStatusArchived  EventStatus = "archived"
	EventStatusCancelled EventStatus = "cancelled"
)

// CanTransition reports whether an organizer may move an event from s to the
// target lifecycle state. Only published events sell tickets; cancelled and
// archived are terminal for sales but archiving keeps the event on record.
func (s EventStatus) CanTransition(to EventStatus) bool {
	switch to {
	case EventStatusPublished:
		return s == EventStatusDraft
	case EventStatusCancelled:
		return s == EventStatusPublished
	case EventStatusArchived:
		return s == EventStatusPublished || s == EventStatusCancelled
	default:
		return false
	}
}

type Event struct {
	gorm.Model
	ID          uuid.UUID   `gorm:"type:uuid;primary_key"`
	Title       string      `gorm:"not null"`
	Description string      `gorm:"not null"`
	StartTime   time.Time   `gorm:"not null"`
	EndTime     time.Time   `gorm:"not null"`
	Location    string      `gorm:"not null"`
	City        string      `gorm:"not null"`
	Status      EventStatus `gorm:"not null;default:'draft'"`
	BannerPath  string
	User        User
	UserID      uuid.UUID
	TicketTypes []TicketType
}

func (event *Event) BeforeCreate(tx *gorm.DB) (err error) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	return
}
