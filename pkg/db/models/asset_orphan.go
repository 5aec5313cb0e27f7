package models

import (
	"time"

	"github.com/google/uuid"
)

// AssetOrphan records a CDN asset whose best-effort deletion failed.
// The cron sweeper retries each row once per cycle and drops it either way.
type AssetOrphan struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	PublicID  string    `gorm:"column:public_id;not null"`
	Source    string    `gorm:"column:source;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
