package activities

import (
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/temankemah/temankemah-backend/pkg/db/models"
)

// Upload carries one incoming image file from a multipart request.
type Upload struct {
	Filename string
	Contents io.Reader
}

// CreateActivityRequest is the multipart form payload for a new activity.
type CreateActivityRequest struct {
	Title       string     `json:"title" validate:"required,min=3,max=200"`
	Description string     `json:"description" validate:"required,max=5000"`
	Date        time.Time  `json:"date" validate:"required"`
	Location    string     `json:"location" validate:"required,max=200"`
	RegionID    *uuid.UUID `json:"region_id"`
	CategoryID  *uuid.UUID `json:"category_id"`

	Cover            *Upload  `json:"-"`
	AdditionalImages []Upload `json:"-"`
}

// UpdateActivityRequest mutates an activity. KeptImageURLs lists the existing
// additional images the client wants to retain; everything else is removed.
type UpdateActivityRequest struct {
	Title       *string    `json:"title" validate:"omitempty,min=3,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=5000"`
	Date        *time.Time `json:"date"`
	Location    *string    `json:"location" validate:"omitempty,max=200"`
	RegionID    *uuid.UUID `json:"region_id"`
	CategoryID  *uuid.UUID `json:"category_id"`

	Cover            *Upload  `json:"-"`
	KeptImageURLs    []string `json:"-"`
	AdditionalImages []Upload `json:"-"`
}

// ListParams filters and paginates the activity feed.
type ListParams struct {
	RegionID   uuid.UUID
	CategoryID uuid.UUID
	UserID     uuid.UUID
	Limit      int
	Cursor     string
}

// ActivityDTO is the transport shape for one activity.
type ActivityDTO struct {
	ID               uuid.UUID  `json:"id"`
	UserID           uuid.UUID  `json:"user_id"`
	RegionID         *uuid.UUID `json:"region_id,omitempty"`
	CategoryID       *uuid.UUID `json:"category_id,omitempty"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Date             time.Time  `json:"date"`
	Location         string     `json:"location"`
	CoverImage       *string    `json:"cover_image,omitempty"`
	AdditionalImages []string   `json:"additional_images"`
	LikeCount        int64      `json:"like_count"`
	CommentCount     int64      `json:"comment_count"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// ActivityPage wraps one page of the feed with its next cursor.
type ActivityPage struct {
	Items      []ActivityDTO `json:"items"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

func FromModel(a *models.Activity) *ActivityDTO {
	if a == nil {
		return nil
	}
	return &ActivityDTO{
		ID:               a.ID,
		UserID:           a.UserID,
		RegionID:         a.RegionID,
		CategoryID:       a.CategoryID,
		Title:            a.Title,
		Description:      a.Description,
		Date:             a.Date,
		Location:         a.Location,
		CoverImage:       a.CoverImage,
		AdditionalImages: append([]string{}, a.AdditionalImages...),
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}
