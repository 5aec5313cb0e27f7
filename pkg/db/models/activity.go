package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Activity is a user-submitted post describing an outdoor outing.
type Activity struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey"`
	UserID           uuid.UUID      `gorm:"column:user_id;type:uuid;not null;index"`
	RegionID         *uuid.UUID     `gorm:"column:region_id;type:uuid;index"`
	CategoryID       *uuid.UUID     `gorm:"column:category_id;type:uuid;index"`
	Title            string         `gorm:"column:title;not null"`
	Description      string         `gorm:"column:description;not null"`
	Date             time.Time      `gorm:"column:date;not null"`
	Location         string         `gorm:"column:location;not null"`
	CoverImage       *string        `gorm:"column:cover_image"`
	AdditionalImages pq.StringArray `gorm:"column:additional_images;type:text[]"`
	CreatedAt        time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
