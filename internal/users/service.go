package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/temankemah/temankemah-backend/internal/images"
	"github.com/temankemah/temankemah-backend/pkg/db/models"
	pkgerrors "github.com/temankemah/temankemah-backend/pkg/errors"
)

// EXP awards per action.
const (
	ExpActivityCreated = 2
	ExpCommentCreated  = 1
)

// Service defines the behavior needed by the user controllers.
type Service interface {
	Get(ctx context.Context, id uuid.UUID) (*UserDTO, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*UserDTO, error)
	AwardExp(ctx context.Context, id uuid.UUID, points int) error
	List(ctx context.Context) ([]UserDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, updates map[string]any) error
	AddExp(ctx context.Context, id uuid.UUID, points int) error
	List(ctx context.Context) ([]models.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo      repository
	deletions images.DeletionQueue
}

// ServiceParams bundles the dependencies required to build a users service.
type ServiceParams struct {
	Repo      repository
	Deletions images.DeletionQueue
}

// NewService constructs a users service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("users repository is required")
	}
	if params.Deletions == nil {
		return nil, fmt.Errorf("image deletion queue is required")
	}
	return &service{repo: params.Repo, deletions: params.Deletions}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	return FromModel(user), nil
}

func (s *service) UpdateProfile(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
	}

	var replacedAvatar string
	if req.AvatarURL != nil && (user.AvatarURL == nil || *user.AvatarURL != *req.AvatarURL) {
		updates["avatar_url"] = *req.AvatarURL
		if user.AvatarURL != nil {
			replacedAvatar = *user.AvatarURL
		}
	}

	if len(updates) == 0 {
		return FromModel(user), nil
	}

	if err := s.repo.UpdateProfile(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update profile")
	}

	// Old avatar is destroyed only after the row change is committed.
	if replacedAvatar != "" {
		s.deletions.QueueDeletionByURL(ctx, replacedAvatar, "users.avatar")
	}

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload user")
	}
	return FromModel(updated), nil
}

func (s *service) AwardExp(ctx context.Context, id uuid.UUID, points int) error {
	if points <= 0 {
		return nil
	}
	if err := s.repo.AddExp(ctx, id, points); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "award exp")
	}
	return nil
}

func (s *service) List(ctx context.Context) ([]UserDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
	}
	out := make([]UserDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete user")
	}
	if user.AvatarURL != nil {
		s.deletions.QueueDeletionByURL(ctx, *user.AvatarURL, "users.avatar")
	}
	return nil
}
