package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/temankemah/temankemah-backend/pkg/db/models"
	"github.com/temankemah/temankemah-backend/pkg/pagination"
)

// Repository persists events and their RSVPs through gorm.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	var event models.Event
	if err := r.db.WithContext(ctx).First(&event, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *Repository) List(ctx context.Context, params ListParams, cursor *pagination.Cursor, fetch int) ([]models.Event, error) {
	query := r.db.WithContext(ctx).Model(&models.Event{})
	if params.OrganizerID != uuid.Nil {
		query = query.Where("organizer_id = ?", params.OrganizerID)
	}
	if params.Upcoming {
		query = query.Where("start_time > ?", time.Now())
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var events []models.Event
	err := query.Order("created_at DESC, id DESC").Limit(fetch).Find(&events).Error
	return events, err
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).Model(&models.Event{}).Where("id = ?", id).Updates(updates).Error
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Event{}, "id = ?", id).Error
}

// SumSeats totals the reserved seats across all participants of one event.
func (r *Repository) SumSeats(ctx context.Context, eventID uuid.UUID) (int, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.EventParticipant{}).
		Where("event_id = ?", eventID).
		Select("COALESCE(SUM(seat_count), 0)").
		Scan(&total).Error
	return int(total), err
}

func (r *Repository) FindParticipant(ctx context.Context, eventID, userID uuid.UUID) (*models.EventParticipant, error) {
	var participant models.EventParticipant
	err := r.db.WithContext(ctx).
		First(&participant, "event_id = ? AND user_id = ?", eventID, userID).Error
	if err != nil {
		return nil, err
	}
	return &participant, nil
}

func (r *Repository) CreateParticipant(ctx context.Context, participant *models.EventParticipant) error {
	return r.db.WithContext(ctx).Create(participant).Error
}

func (r *Repository) DeleteParticipant(ctx context.Context, eventID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&models.EventParticipant{}, "event_id = ? AND user_id = ?", eventID, userID).Error
}

func (r *Repository) ListParticipants(ctx context.Context, eventID uuid.UUID) ([]models.EventParticipant, error) {
	var participants []models.EventParticipant
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at ASC").
		Find(&participants).Error
	return participants, err
}
