package interactions

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/temankemah/temankemah-backend/internal/activities"
	"github.com/temankemah/temankemah-backend/internal/users"
	"github.com/temankemah/temankemah-backend/pkg/db"
	"github.com/temankemah/temankemah-backend/pkg/db/models"
	pkgerrors "github.com/temankemah/temankemah-backend/pkg/errors"
	"github.com/temankemah/temankemah-backend/pkg/logger"
)

// Service manages likes and comments against activities and videos.
type Service interface {
	ToggleLike(ctx context.Context, userID uuid.UUID, target Target) (liked bool, err error)
	Counts(ctx context.Context, target Target) (*TargetCounts, error)
	CountForActivities(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]activities.Counts, error)

	CreateComment(ctx context.Context, userID uuid.UUID, req CommentRequest) (*CommentDTO, error)
	ListComments(ctx context.Context, target Target) ([]CommentDTO, error)
	DeleteComment(ctx context.Context, actorID uuid.UUID, isAdmin bool, commentID uuid.UUID) error
}

type repository interface {
	CreateLike(ctx context.Context, like *models.Like) error
	FindLike(ctx context.Context, userID uuid.UUID, target Target) (*models.Like, error)
	DeleteLike(ctx context.Context, id uuid.UUID) error
	CountLikes(ctx context.Context, target Target) (int64, error)
	CreateComment(ctx context.Context, comment *models.Comment) error
	FindCommentByID(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	DeleteComment(ctx context.Context, id uuid.UUID) error
	ListComments(ctx context.Context, target Target) ([]models.Comment, error)
	CountComments(ctx context.Context, target Target) (int64, error)
	CountByActivity(ctx context.Context, activityIDs []uuid.UUID) (map[uuid.UUID]TargetCounts, error)
}

type activityChecker interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Activity, error)
}

type expAwarder interface {
	AwardExp(ctx context.Context, id uuid.UUID, points int) error
}

type service struct {
	repo       repository
	activities activityChecker
	exp        expAwarder
	logg       *logger.Logger
}

// ServiceParams bundles the dependencies required to build an interactions service.
type ServiceParams struct {
	Repo       repository
	Activities activityChecker
	Exp        expAwarder
	Logger     *logger.Logger
}

// NewService constructs an interactions service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("interactions repository is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{
		repo:       params.Repo,
		activities: params.Activities,
		exp:        params.Exp,
		logg:       params.Logger,
	}, nil
}

// validateTarget enforces that exactly one of activity_id and video_id is set.
func (s *service) validateTarget(ctx context.Context, target Target) error {
	hasActivity := target.ActivityID != nil
	hasVideo := target.VideoID != nil && *target.VideoID != ""
	if hasActivity == hasVideo {
		return pkgerrors.New(pkgerrors.CodeValidation, "exactly one of activity_id or video_id is required")
	}
	if hasActivity && s.activities != nil {
		if _, err := s.activities.FindByID(ctx, *target.ActivityID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "activity not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load activity")
		}
	}
	return nil
}

// ToggleLike creates the like when absent and removes it when present.
func (s *service) ToggleLike(ctx context.Context, userID uuid.UUID, target Target) (bool, error) {
	if err := s.validateTarget(ctx, target); err != nil {
		return false, err
	}

	existing, err := s.repo.FindLike(ctx, userID, target)
	if err == nil {
		if err := s.repo.DeleteLike(ctx, existing.ID); err != nil {
			return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove like")
		}
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "look up like")
	}

	like := &models.Like{
		UserID:     userID,
		ActivityID: target.ActivityID,
		VideoID:    target.VideoID,
	}
	if err := s.repo.CreateLike(ctx, like); err != nil {
		// a concurrent toggle already inserted the row
		if db.IsUniqueViolation(err) {
			return true, nil
		}
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create like")
	}
	return true, nil
}

func (s *service) Counts(ctx context.Context, target Target) (*TargetCounts, error) {
	if err := s.validateTarget(ctx, target); err != nil {
		return nil, err
	}
	likes, err := s.repo.CountLikes(ctx, target)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count likes")
	}
	comments, err := s.repo.CountComments(ctx, target)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count comments")
	}
	return &TargetCounts{Likes: likes, Comments: comments}, nil
}

func (s *service) CountForActivities(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]activities.Counts, error) {
	counts, err := s.repo.CountByActivity(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]activities.Counts, len(counts))
	for id, entry := range counts {
		out[id] = activities.Counts{Likes: entry.Likes, Comments: entry.Comments}
	}
	return out, nil
}

func (s *service) CreateComment(ctx context.Context, userID uuid.UUID, req CommentRequest) (*CommentDTO, error) {
	if err := s.validateTarget(ctx, req.Target); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		UserID:     userID,
		ActivityID: req.ActivityID,
		VideoID:    req.VideoID,
		Content:    req.Content,
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create comment")
	}

	// EXP is best effort: a failed award never rolls back the comment.
	if s.exp != nil {
		if err := s.exp.AwardExp(ctx, userID, users.ExpCommentCreated); err != nil {
			s.logg.Error(s.logg.WithField(ctx, "comment_id", comment.ID.String()), "award comment exp", err)
		}
	}
	return commentFromModel(comment), nil
}

func (s *service) ListComments(ctx context.Context, target Target) ([]CommentDTO, error) {
	if err := s.validateTarget(ctx, target); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListComments(ctx, target)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list comments")
	}
	out := make([]CommentDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *commentFromModel(&rows[i]))
	}
	return out, nil
}

// DeleteComment removes a comment for its author or a platform admin.
func (s *service) DeleteComment(ctx context.Context, actorID uuid.UUID, isAdmin bool, commentID uuid.UUID) error {
	comment, err := s.repo.FindCommentByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "comment not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load comment")
	}
	if !isAdmin && comment.UserID != actorID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only the author may delete this comment")
	}
	if err := s.repo.DeleteComment(ctx, commentID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete comment")
	}
	return nil
}
