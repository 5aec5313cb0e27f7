package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// CampArea is a listed camping venue with facilities and a nightly price.
type CampArea struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID           uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index"`
	Name             string          `gorm:"column:name;not null"`
	Location         string          `gorm:"column:location;not null"`
	Description      string          `gorm:"column:description;not null"`
	Price            decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Facilities       pq.StringArray  `gorm:"column:facilities;type:text[]"`
	CoverImage       *string         `gorm:"column:cover_image"`
	AdditionalImages pq.StringArray  `gorm:"column:additional_images;type:text[]"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
