package sitemap

import (
	"context"

	"gorm.io/gorm"

	"github.com/temankemah/temankemah-backend/pkg/db/models"
	"github.com/temankemah/temankemah-backend/pkg/enums"
)

// Repository reads page references for the sitemap through gorm.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ActivityPages(ctx context.Context) ([]PageRef, error) {
	var pages []PageRef
	err := r.db.WithContext(ctx).
		Model(&models.Activity{}).
		Select("id, updated_at").
		Order("updated_at DESC").
		Scan(&pages).Error
	return pages, err
}

func (r *Repository) CampAreaPages(ctx context.Context) ([]PageRef, error) {
	var pages []PageRef
	err := r.db.WithContext(ctx).
		Model(&models.CampArea{}).
		Select("id, updated_at").
		Order("updated_at DESC").
		Scan(&pages).Error
	return pages, err
}

func (r *Repository) EventPages(ctx context.Context) ([]PageRef, error) {
	var pages []PageRef
	err := r.db.WithContext(ctx).
		Model(&models.Event{}).
		Select("id, updated_at").
		Order("updated_at DESC").
		Scan(&pages).Error
	return pages, err
}

func (r *Repository) RegionPages(ctx context.Context) ([]PageRef, error) {
	var pages []PageRef
	err := r.db.WithContext(ctx).
		Model(&models.Region{}).
		Select("id, updated_at").
		Where("status = ?", enums.RegionStatusActive).
		Order("updated_at DESC").
		Scan(&pages).Error
	return pages, err
}
