package campareas

import (
	"context"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"gorm.io/gorm"

	"github.com/temankemah/temankemah-backend/pkg/db/models"
	"github.com/temankemah/temankemah-backend/pkg/pagination"
)

// Repository persists camp areas through gorm.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, area *models.CampArea) error {
	return r.db.WithContext(ctx).Create(area).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.CampArea, error) {
	var area models.CampArea
	if err := r.db.WithContext(ctx).First(&area, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &area, nil
}

func (r *Repository) List(ctx context.Context, params ListParams, cursor *pagination.Cursor, fetch int) ([]models.CampArea, error) {
	query := r.db.WithContext(ctx).Model(&models.CampArea{})
	if params.UserID != uuid.Nil {
		query = query.Where("user_id = ?", params.UserID)
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var areas []models.CampArea
	err := query.Order("created_at DESC, id DESC").Limit(fetch).Find(&areas).Error
	return areas, err
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).Model(&models.CampArea{}).Where("id = ?", id).Updates(updates).Error
}

func (r *Repository) UpdateImages(ctx context.Context, id uuid.UUID, cover *string, additional []string) error {
	return r.db.WithContext(ctx).Model(&models.CampArea{}).Where("id = ?", id).Updates(map[string]any{
		"cover_image":       cover,
		"additional_images": pq.StringArray(additional),
	}).Error
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.CampArea{}, "id = ?", id).Error
}
