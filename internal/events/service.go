package events

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/temankemah/temankemah-backend/internal/images"
	"github.com/temankemah/temankemah-backend/pkg/cdn"
	"github.com/temankemah/temankemah-backend/pkg/db"
	"github.com/temankemah/temankemah-backend/pkg/db/models"
	pkgerrors "github.com/temankemah/temankemah-backend/pkg/errors"
	"github.com/temankemah/temankemah-backend/pkg/logger"
	"github.com/temankemah/temankemah-backend/pkg/pagination"
)

const deletionSource = "events"

// Service defines the behavior needed by the event controllers.
type Service interface {
	Create(ctx context.Context, organizerID uuid.UUID, req CreateEventRequest) (*EventDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*EventDTO, error)
	List(ctx context.Context, params ListParams) (*EventPage, error)
	Update(ctx context.Context, organizerID, id uuid.UUID, req UpdateEventRequest) (*EventDTO, error)
	Delete(ctx context.Context, organizerID uuid.UUID, isAdmin bool, id uuid.UUID) error
	Join(ctx context.Context, userID, eventID uuid.UUID, req JoinEventRequest) (*ParticipantDTO, error)
	Leave(ctx context.Context, userID, eventID uuid.UUID) error
	Participants(ctx context.Context, eventID uuid.UUID) ([]ParticipantDTO, error)
}

type repository interface {
	Create(ctx context.Context, event *models.Event) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
	List(ctx context.Context, params ListParams, cursor *pagination.Cursor, fetch int) ([]models.Event, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	SumSeats(ctx context.Context, eventID uuid.UUID) (int, error)
	FindParticipant(ctx context.Context, eventID, userID uuid.UUID) (*models.EventParticipant, error)
	CreateParticipant(ctx context.Context, participant *models.EventParticipant) error
	DeleteParticipant(ctx context.Context, eventID, userID uuid.UUID) error
	ListParticipants(ctx context.Context, eventID uuid.UUID) ([]models.EventParticipant, error)
}

type uploader interface {
	Upload(ctx context.Context, filename string, contents io.Reader) (*cdn.UploadResult, error)
}

type service struct {
	repo      repository
	cdn       uploader
	deletions images.DeletionQueue
	logg      *logger.Logger
}

// ServiceParams bundles the dependencies required to build an events service.
type ServiceParams struct {
	Repo      repository
	CDN       uploader
	Deletions images.DeletionQueue
	Logger    *logger.Logger
}

// NewService constructs an events service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("events repository is required")
	}
	if params.CDN == nil {
		return nil, fmt.Errorf("cdn client is required")
	}
	if params.Deletions == nil {
		return nil, fmt.Errorf("image deletion queue is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{
		repo:      params.Repo,
		cdn:       params.CDN,
		deletions: params.Deletions,
		logg:      params.Logger,
	}, nil
}

func (s *service) Create(ctx context.Context, organizerID uuid.UUID, req CreateEventRequest) (*EventDTO, error) {
	if !req.EndTime.After(req.StartTime) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "end_time must be after start_time")
	}

	var coverURL *string
	if req.Cover != nil {
		result, err := s.cdn.Upload(ctx, req.Cover.Filename, req.Cover.Contents)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload cover image")
		}
		url := result.SecureURL
		coverURL = &url
	}

	event := &models.Event{
		OrganizerID:     organizerID,
		Title:           req.Title,
		Description:     req.Description,
		Location:        req.Location,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		Price:           req.Price,
		MaxParticipants: req.MaxParticipants,
		CoverImage:      coverURL,
	}
	if err := s.repo.Create(ctx, event); err != nil {
		if coverURL != nil {
			s.deletions.QueueDeletionByURL(ctx, *coverURL, deletionSource)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create event")
	}
	return FromModel(event), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*EventDTO, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "event not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load event")
	}

	dto := FromModel(event)
	reserved, err := s.repo.SumSeats(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sum reserved seats")
	}
	dto.ReservedSeats = reserved
	return dto, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*EventPage, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	rows, err := s.repo.List(ctx, params, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list events")
	}

	page, hasMore := pagination.TrimPage(rows, params.Limit)
	items := make([]EventDTO, 0, len(page))
	for i := range page {
		items = append(items, *FromModel(&page[i]))
	}

	result := &EventPage{Items: items}
	if hasMore && len(page) > 0 {
		last := page[len(page)-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return result, nil
}

func (s *service) Update(ctx context.Context, organizerID, id uuid.UUID, req UpdateEventRequest) (*EventDTO, error) {
	event, err := s.loadOrganized(ctx, organizerID, id)
	if err != nil {
		return nil, err
	}

	startTime := event.StartTime
	endTime := event.EndTime
	if req.StartTime != nil {
		startTime = *req.StartTime
	}
	if req.EndTime != nil {
		endTime = *req.EndTime
	}
	if !endTime.After(startTime) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "end_time must be after start_time")
	}

	updates := map[string]any{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.StartTime != nil {
		updates["start_time"] = *req.StartTime
	}
	if req.EndTime != nil {
		updates["end_time"] = *req.EndTime
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.MaxParticipants != nil {
		updates["max_participants"] = *req.MaxParticipants
	}

	if req.Cover != nil {
		result, err := s.cdn.Upload(ctx, req.Cover.Filename, req.Cover.Contents)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload cover image")
		}
		updates["cover_image"] = result.SecureURL
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update event")
		}
	}

	// Old cover goes away only after the row carries the new one.
	if req.Cover != nil && event.CoverImage != nil {
		s.deletions.QueueDeletionByURL(ctx, *event.CoverImage, deletionSource)
	}

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload event")
	}
	return FromModel(updated), nil
}

func (s *service) Delete(ctx context.Context, organizerID uuid.UUID, isAdmin bool, id uuid.UUID) error {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "event not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load event")
	}
	if !isAdmin && event.OrganizerID != organizerID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only the organizer may delete this event")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete event")
	}
	if event.CoverImage != nil {
		s.deletions.QueueDeletionByURL(ctx, *event.CoverImage, deletionSource)
	}
	return nil
}

// Join reserves seats with a check-then-insert. Two concurrent joins near the
// capacity boundary can both pass the check and jointly overshoot.
func (s *service) Join(ctx context.Context, userID, eventID uuid.UUID, req JoinEventRequest) (*ParticipantDTO, error) {
	if req.SeatCount <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "seat_count must be positive")
	}

	event, err := s.repo.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "event not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load event")
	}

	if _, err := s.repo.FindParticipant(ctx, eventID, userID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "already joined this event")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check existing rsvp")
	}

	if event.MaxParticipants != nil {
		reserved, err := s.repo.SumSeats(ctx, eventID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sum reserved seats")
		}
		if reserved+req.SeatCount > *event.MaxParticipants {
			remaining := *event.MaxParticipants - reserved
			if remaining < 0 {
				remaining = 0
			}
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("Kursi tidak mencukupi, sisa %d kursi", remaining))
		}
	}

	participant := &models.EventParticipant{
		EventID:   eventID,
		UserID:    userID,
		SeatCount: req.SeatCount,
	}
	if err := s.repo.CreateParticipant(ctx, participant); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "already joined this event")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create rsvp")
	}
	return participantFromModel(participant), nil
}

func (s *service) Leave(ctx context.Context, userID, eventID uuid.UUID) error {
	if _, err := s.repo.FindParticipant(ctx, eventID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "rsvp not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load rsvp")
	}
	if err := s.repo.DeleteParticipant(ctx, eventID, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete rsvp")
	}
	return nil
}

func (s *service) Participants(ctx context.Context, eventID uuid.UUID) ([]ParticipantDTO, error) {
	rows, err := s.repo.ListParticipants(ctx, eventID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list participants")
	}
	out := make([]ParticipantDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *participantFromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) loadOrganized(ctx context.Context, organizerID, id uuid.UUID) (*models.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "event not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load event")
	}
	if event.OrganizerID != organizerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the organizer may modify this event")
	}
	return event, nil
}
