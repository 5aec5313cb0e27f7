package campareas

import (
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/temankemah/temankemah-backend/pkg/db/models"
)

// Upload carries one incoming image file from a multipart request.
type Upload struct {
	Filename string
	Contents io.Reader
}

// CreateCampAreaRequest is the multipart form payload for a new camp area.
type CreateCampAreaRequest struct {
	Name        string          `json:"name" validate:"required,min=3,max=200"`
	Location    string          `json:"location" validate:"required,max=200"`
	Description string          `json:"description" validate:"required,max=5000"`
	Price       decimal.Decimal `json:"price"`
	Facilities  []string        `json:"facilities" validate:"max=30,dive,max=100"`

	Cover            *Upload  `json:"-"`
	AdditionalImages []Upload `json:"-"`
}

// UpdateCampAreaRequest mutates a camp area. KeptImageURLs lists the existing
// additional images the client wants to retain.
type UpdateCampAreaRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=3,max=200"`
	Location    *string          `json:"location" validate:"omitempty,max=200"`
	Description *string          `json:"description" validate:"omitempty,max=5000"`
	Price       *decimal.Decimal `json:"price"`
	Facilities  []string         `json:"facilities" validate:"omitempty,max=30,dive,max=100"`

	Cover            *Upload  `json:"-"`
	KeptImageURLs    []string `json:"-"`
	AdditionalImages []Upload `json:"-"`
}

// ListParams filters and paginates the camp area listing.
type ListParams struct {
	UserID uuid.UUID
	Limit  int
	Cursor string
}

// CampAreaDTO is the transport shape for one camp area.
type CampAreaDTO struct {
	ID               uuid.UUID       `json:"id"`
	UserID           uuid.UUID       `json:"user_id"`
	Name             string          `json:"name"`
	Location         string          `json:"location"`
	Description      string          `json:"description"`
	Price            decimal.Decimal `json:"price"`
	Facilities       []string        `json:"facilities"`
	CoverImage       *string         `json:"cover_image,omitempty"`
	AdditionalImages []string        `json:"additional_images"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// CampAreaPage wraps one page of camp areas with its next cursor.
type CampAreaPage struct {
	Items      []CampAreaDTO `json:"items"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

func FromModel(c *models.CampArea) *CampAreaDTO {
	if c == nil {
		return nil
	}
	return &CampAreaDTO{
		ID:               c.ID,
		UserID:           c.UserID,
		Name:             c.Name,
		Location:         c.Location,
		Description:      c.Description,
		Price:            c.Price,
		Facilities:       append([]string{}, c.Facilities...),
		CoverImage:       c.CoverImage,
		AdditionalImages: append([]string{}, c.AdditionalImages...),
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}
