package regions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/temankemah/temankemah-backend/pkg/db/models"
	"github.com/temankemah/temankemah-backend/pkg/enums"
)

// Repository persists regions and their memberships through gorm.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, region *models.Region) error {
	return r.db.WithContext(ctx).Create(region).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Region, error) {
	var region models.Region
	if err := r.db.WithContext(ctx).First(&region, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &region, nil
}

func (r *Repository) ListByStatus(ctx context.Context, status enums.RegionStatus) ([]models.Region, error) {
	var regions []models.Region
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("name ASC").
		Find(&regions).Error
	return regions, err
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).Model(&models.Region{}).Where("id = ?", id).Updates(updates).Error
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Region{}, "id = ?", id).Error
}

// DeleteRejectedBefore removes rejected regions older than the cutoff and
// returns how many rows went away.
func (r *Repository) DeleteRejectedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("status = ? AND updated_at < ?", enums.RegionStatusRejected, cutoff).
		Delete(&models.Region{})
	return result.RowsAffected, result.Error
}

func (r *Repository) CountMembers(ctx context.Context, regionID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.RegionMember{}).
		Where("region_id = ?", regionID).
		Count(&count).Error
	return count, err
}

func (r *Repository) FindMember(ctx context.Context, regionID, userID uuid.UUID) (*models.RegionMember, error) {
	var member models.RegionMember
	err := r.db.WithContext(ctx).
		First(&member, "region_id = ? AND user_id = ?", regionID, userID).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *Repository) CreateMember(ctx context.Context, member *models.RegionMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *Repository) UpdateMemberRole(ctx context.Context, regionID, userID uuid.UUID, role enums.RegionRole) error {
	return r.db.WithContext(ctx).
		Model(&models.RegionMember{}).
		Where("region_id = ? AND user_id = ?", regionID, userID).
		Update("role", role).Error
}

func (r *Repository) DeleteMember(ctx context.Context, regionID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&models.RegionMember{}, "region_id = ? AND user_id = ?", regionID, userID).Error
}

func (r *Repository) ListMembers(ctx context.Context, regionID uuid.UUID) ([]models.RegionMember, error) {
	var members []models.RegionMember
	err := r.db.WithContext(ctx).
		Where("region_id = ?", regionID).
		Order("created_at ASC").
		Find(&members).Error
	return members, err
}
