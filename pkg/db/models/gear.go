package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GearList is a user-owned, optionally public checklist of categorized items.
type GearList struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	Title     string    `gorm:"column:title;not null"`
	IsPublic  bool      `gorm:"column:is_public;not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// GearCategory groups items inside a list.
type GearCategory struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ListID    uuid.UUID `gorm:"column:list_id;type:uuid;not null;index"`
	Name      string    `gorm:"column:name;not null"`
	SortOrder int       `gorm:"column:sort_order;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// GearItem is a single checklist entry with per-unit weight in grams.
type GearItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CategoryID uuid.UUID       `gorm:"column:category_id;type:uuid;not null;index"`
	Name       string          `gorm:"column:name;not null"`
	Weight     decimal.Decimal `gorm:"column:weight;type:numeric(12,2);not null;default:0"`
	Quantity   int             `gorm:"column:quantity;not null;default:1"`
	SortOrder  int             `gorm:"column:sort_order;not null;default:0"`
	Checked    bool            `gorm:"column:checked;not null;default:false"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
}
