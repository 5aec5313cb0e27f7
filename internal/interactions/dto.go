package interactions

import (
	"time"

	"github.com/google/uuid"

	"github.com/temankemah/temankemah-backend/pkg/db/models"
)

// Target addresses exactly one of an activity row or an external video id.
type Target struct {
	ActivityID *uuid.UUID `json:"activity_id"`
	VideoID    *string    `json:"video_id"`
}

// CommentRequest creates a comment against one target.
type CommentRequest struct {
	Target
	Content string `json:"content" validate:"required,min=1,max=2000"`
}

// LikeDTO is one like row.
type LikeDTO struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	ActivityID *uuid.UUID `json:"activity_id,omitempty"`
	VideoID    *string    `json:"video_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// CommentDTO is one comment row.
type CommentDTO struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	ActivityID *uuid.UUID `json:"activity_id,omitempty"`
	VideoID    *string    `json:"video_id,omitempty"`
	Content    string     `json:"content"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// TargetCounts carries the like and comment totals for one target.
type TargetCounts struct {
	Likes    int64 `json:"likes"`
	Comments int64 `json:"comments"`
}

func likeFromModel(l *models.Like) *LikeDTO {
	return &LikeDTO{
		ID:         l.ID,
		UserID:     l.UserID,
		ActivityID: l.ActivityID,
		VideoID:    l.VideoID,
		CreatedAt:  l.CreatedAt,
	}
}

func commentFromModel(c *models.Comment) *CommentDTO {
	return &CommentDTO{
		ID:         c.ID,
		UserID:     c.UserID,
		ActivityID: c.ActivityID,
		VideoID:    c.VideoID,
		Content:    c.Content,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}
