package events

import (
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/temankemah/temankemah-backend/pkg/db/models"
)

// Upload carries an incoming cover image from a multipart request.
type Upload struct {
	Filename string
	Contents io.Reader
}

// CreateEventRequest is the payload for a new event.
type CreateEventRequest struct {
	Title           string          `json:"title" validate:"required,min=3,max=200"`
	Description     string          `json:"description" validate:"required,max=5000"`
	Location        string          `json:"location" validate:"required,max=200"`
	StartTime       time.Time       `json:"start_time" validate:"required"`
	EndTime         time.Time       `json:"end_time" validate:"required"`
	Price           decimal.Decimal `json:"price"`
	MaxParticipants *int            `json:"max_participants" validate:"omitempty,gt=0"`

	Cover *Upload `json:"-"`
}

// UpdateEventRequest mutates an event.
type UpdateEventRequest struct {
	Title           *string          `json:"title" validate:"omitempty,min=3,max=200"`
	Description     *string          `json:"description" validate:"omitempty,max=5000"`
	Location        *string          `json:"location" validate:"omitempty,max=200"`
	StartTime       *time.Time       `json:"start_time"`
	EndTime         *time.Time       `json:"end_time"`
	Price           *decimal.Decimal `json:"price"`
	MaxParticipants *int             `json:"max_participants" validate:"omitempty,gt=0"`

	Cover *Upload `json:"-"`
}

// JoinEventRequest reserves seats on an event.
type JoinEventRequest struct {
	SeatCount int `json:"seat_count" validate:"required,gt=0"`
}

// ListParams filters and paginates the event listing.
type ListParams struct {
	OrganizerID uuid.UUID
	Upcoming    bool
	Limit       int
	Cursor      string
}

// EventDTO is the transport shape for one event.
type EventDTO struct {
	ID              uuid.UUID       `json:"id"`
	OrganizerID     uuid.UUID       `json:"organizer_id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Location        string          `json:"location"`
	StartTime       time.Time       `json:"start_time"`
	EndTime         time.Time       `json:"end_time"`
	Price           decimal.Decimal `json:"price"`
	MaxParticipants *int            `json:"max_participants,omitempty"`
	ReservedSeats   int             `json:"reserved_seats"`
	CoverImage      *string         `json:"cover_image,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ParticipantDTO is one RSVP row.
type ParticipantDTO struct {
	ID        uuid.UUID `json:"id"`
	EventID   uuid.UUID `json:"event_id"`
	UserID    uuid.UUID `json:"user_id"`
	SeatCount int       `json:"seat_count"`
	CreatedAt time.Time `json:"created_at"`
}

// EventPage wraps one page of events with its next cursor.
type EventPage struct {
	Items      []EventDTO `json:"items"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

func FromModel(e *models.Event) *EventDTO {
	if e == nil {
		return nil
	}
	return &EventDTO{
		ID:              e.ID,
		OrganizerID:     e.OrganizerID,
		Title:           e.Title,
		Description:     e.Description,
		Location:        e.Location,
		StartTime:       e.StartTime,
		EndTime:         e.EndTime,
		Price:           e.Price,
		MaxParticipants: e.MaxParticipants,
		CoverImage:      e.CoverImage,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

func participantFromModel(p *models.EventParticipant) *ParticipantDTO {
	return &ParticipantDTO{
		ID:        p.ID,
		EventID:   p.EventID,
		UserID:    p.UserID,
		SeatCount: p.SeatCount,
		CreatedAt: p.CreatedAt,
	}
}
