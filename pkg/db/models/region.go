package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/temankemah/temankemah-backend/pkg/enums"
)

// Region is a named sub-community with its own membership roster.
type Region struct {
	ID          uuid.UUID          `gorm:"type:uuid;primaryKey"`
	Name        string             `gorm:"column:name;not null;uniqueIndex"`
	Description *string            `gorm:"column:description"`
	Status      enums.RegionStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	CoverImage  *string            `gorm:"column:cover_image"`
	CreatedBy   uuid.UUID          `gorm:"column:created_by;type:uuid;not null"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// RegionMember links a user to a region with a region-scoped role.
type RegionMember struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey"`
	RegionID  uuid.UUID        `gorm:"column:region_id;type:uuid;not null;uniqueIndex:idx_region_members_region_user"`
	UserID    uuid.UUID        `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_region_members_region_user"`
	Role      enums.RegionRole `gorm:"column:role;type:text;not null;default:'member'"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
}
