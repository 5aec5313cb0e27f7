package models

import (
	"time"

	"github.com/google/uuid"
)

// Like attaches to exactly one of an Activity row or a bare video id.
type Like struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index"`
	ActivityID *uuid.UUID `gorm:"column:activity_id;type:uuid;index"`
	VideoID    *string    `gorm:"column:video_id;index"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
}

// Comment attaches to exactly one of an Activity row or a bare video id.
type Comment struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index"`
	ActivityID *uuid.UUID `gorm:"column:activity_id;type:uuid;index"`
	VideoID    *string    `gorm:"column:video_id;index"`
	Content    string     `gorm:"column:content;not null"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
