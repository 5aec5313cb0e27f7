package interactions

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/temankemah/temankemah-backend/pkg/db/models"
)

// Repository persists likes and comments through gorm.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func targetScope(target Target) func(*gorm.DB) *gorm.DB {
	return func(query *gorm.DB) *gorm.DB {
		if target.ActivityID != nil {
			return query.Where("activity_id = ?", *target.ActivityID)
		}
		return query.Where("video_id = ?", *target.VideoID)
	}
}

func (r *Repository) CreateLike(ctx context.Context, like *models.Like) error {
	return r.db.WithContext(ctx).Create(like).Error
}

func (r *Repository) FindLike(ctx context.Context, userID uuid.UUID, target Target) (*models.Like, error) {
	var like models.Like
	err := r.db.WithContext(ctx).
		Scopes(targetScope(target)).
		Where("user_id = ?", userID).
		First(&like).Error
	if err != nil {
		return nil, err
	}
	return &like, nil
}

func (r *Repository) DeleteLike(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Like{}, "id = ?", id).Error
}

func (r *Repository) CountLikes(ctx context.Context, target Target) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Scopes(targetScope(target)).
		Count(&count).Error
	return count, err
}

func (r *Repository) CreateComment(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *Repository) FindCommentByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *Repository) DeleteComment(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Comment{}, "id = ?", id).Error
}

func (r *Repository) ListComments(ctx context.Context, target Target) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Scopes(targetScope(target)).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

func (r *Repository) CountComments(ctx context.Context, target Target) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Scopes(targetScope(target)).
		Count(&count).Error
	return count, err
}

// CountByActivity returns per-activity like and comment totals in two grouped
// queries.
func (r *Repository) CountByActivity(ctx context.Context, activityIDs []uuid.UUID) (map[uuid.UUID]TargetCounts, error) {
	out := make(map[uuid.UUID]TargetCounts, len(activityIDs))
	if len(activityIDs) == 0 {
		return out, nil
	}

	type row struct {
		ActivityID uuid.UUID
		Total      int64
	}

	var likeRows []row
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Select("activity_id, COUNT(*) AS total").
		Where("activity_id IN ?", activityIDs).
		Group("activity_id").
		Scan(&likeRows).Error
	if err != nil {
		return nil, err
	}
	for _, entry := range likeRows {
		counts := out[entry.ActivityID]
		counts.Likes = entry.Total
		out[entry.ActivityID] = counts
	}

	var commentRows []row
	err = r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Select("activity_id, COUNT(*) AS total").
		Where("activity_id IN ?", activityIDs).
		Group("activity_id").
		Scan(&commentRows).Error
	if err != nil {
		return nil, err
	}
	for _, entry := range commentRows {
		counts := out[entry.ActivityID]
		counts.Comments = entry.Total
		out[entry.ActivityID] = counts
	}
	return out, nil
}
