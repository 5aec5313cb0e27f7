package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event is an organized gathering with optional seat capacity.
type Event struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrganizerID     uuid.UUID       `gorm:"column:organizer_id;type:uuid;not null;index"`
	Title           string          `gorm:"column:title;not null"`
	Description     string          `gorm:"column:description;not null"`
	Location        string          `gorm:"column:location;not null"`
	StartTime       time.Time       `gorm:"column:start_time;not null"`
	EndTime         time.Time       `gorm:"column:end_time;not null"`
	Price           decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null;default:0"`
	MaxParticipants *int            `gorm:"column:max_participants"`
	CoverImage      *string         `gorm:"column:cover_image"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// EventParticipant records an RSVP and the number of seats it reserves.
type EventParticipant struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	EventID   uuid.UUID `gorm:"column:event_id;type:uuid;not null;uniqueIndex:idx_event_participants_event_user"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_event_participants_event_user"`
	SeatCount int       `gorm:"column:seat_count;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
