package images

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/temankemah/temankemah-backend/pkg/db/models"
)

// OrphanRepository persists CDN assets whose deletion must be retried.
type OrphanRepository struct {
	db *gorm.DB
}

// NewOrphanRepository binds the repo to the provided GORM DB.
func NewOrphanRepository(db *gorm.DB) *OrphanRepository {
	return &OrphanRepository{db: db}
}

// Create inserts an orphan row for a failed destroy.
func (r *OrphanRepository) Create(ctx context.Context, publicID, source string) error {
	orphan := &models.AssetOrphan{PublicID: publicID, Source: source}
	return r.db.WithContext(ctx).Create(orphan).Error
}

// ListBatch returns the oldest orphans up to the given limit.
func (r *OrphanRepository) ListBatch(ctx context.Context, limit int) ([]models.AssetOrphan, error) {
	var orphans []models.AssetOrphan
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Limit(limit).
		Find(&orphans).Error
	if err != nil {
		return nil, err
	}
	return orphans, nil
}

// Delete removes an orphan row by id.
func (r *OrphanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.AssetOrphan{}, "id = ?", id).Error
}
