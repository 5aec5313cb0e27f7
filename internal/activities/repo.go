package activities

import (
	"context"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/temankemah/temankemah-backend/pkg/db/models"
	"github.com/temankemah/temankemah-backend/pkg/pagination"
)

// Repository exposes activity persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts the activity row.
func (r *Repository) Create(ctx context.Context, activity *models.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

// FindByID loads one activity.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Activity, error) {
	var activity models.Activity
	if err := r.db.WithContext(ctx).First(&activity, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &activity, nil
}

// List returns one over-fetched page ordered newest first.
func (r *Repository) List(ctx context.Context, params ListParams, cursor *pagination.Cursor, fetch int) ([]models.Activity, error) {
	query := r.db.WithContext(ctx).Model(&models.Activity{})
	if params.RegionID != uuid.Nil {
		query = query.Where("region_id = ?", params.RegionID)
	}
	if params.CategoryID != uuid.Nil {
		query = query.Where("category_id = ?", params.CategoryID)
	}
	if params.UserID != uuid.Nil {
		query = query.Where("user_id = ?", params.UserID)
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Activity
	err := query.
		Order("created_at DESC, id DESC").
		Limit(fetch).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Update applies column updates to an activity row.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Activity{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// UpdateImages overwrites the cover and additional image columns.
func (r *Repository) UpdateImages(ctx context.Context, id uuid.UUID, cover *string, additional []string) error {
	return r.db.WithContext(ctx).
		Model(&models.Activity{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"cover_image":       cover,
			"additional_images": pq.StringArray(additional),
		}).Error
}

// Delete removes the activity row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Activity{}, "id = ?", id).Error
}
