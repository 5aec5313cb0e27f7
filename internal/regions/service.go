package regions

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
	"github.com/temankemah/temankemah-backend/pkg/enums"
	pkgerrors "github.com/temankemah/temankemah-backend/pkg/errors"
	"github.com/temankemah/temankemah-backend/pkg/logger"
)

const deletionSource = "regions"

// Service defines the behavior needed by the region controllers.
type Service interface {
	Create(ctx context.Context, creatorID uuid.UUID, req CreateRegionRequest) (*RegionDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*RegionDTO, error)
	ListActive(ctx context.Context) ([]RegionDTO, error)
	ListPending(ctx context.Context) ([]RegionDTO, error)
	Update(ctx context.Context, actorID uuid.UUID, isAdmin bool, id uuid.UUID, req UpdateRegionRequest) (*RegionDTO, error)
	Approve(ctx context.Context, id uuid.UUID) (*RegionDTO, error)
	Reject(ctx context.Context, id uuid.UUID) (*RegionDTO, error)
	Join(ctx context.Context, userID, regionID uuid.UUID) (*MemberDTO, error)
	Leave(ctx context.Context, userID, regionID uuid.UUID) error
	SetMemberRole(ctx context.Context, actorID uuid.UUID, isAdmin bool, regionID, memberID uuid.UUID, role enums.RegionRole) error
	Members(ctx context.Context, regionID uuid.UUID) ([]MemberDTO, error)
}

type repository interface {
	Create(ctx context.Context, region *models.Region) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Region, error)
	ListByStatus(ctx context.Context, status enums.RegionStatus) ([]models.Region, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	CountMembers(ctx context.Context, regionID uuid.UUID) (int64, error)
	FindMember(ctx context.Context, regionID, userID uuid.UUID) (*models.RegionMember, error)
	CreateMember(ctx context.Context, member *models.RegionMember) error
	UpdateMemberRole(ctx context.Context, regionID, userID uuid.UUID, role enums.RegionRole) error
	DeleteMember(ctx context.Context, regionID, userID uuid.UUID) error
	ListMembers(ctx context.Context, regionID uuid.UUID) ([]models.RegionMember, error)
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

// ServiceParams bundles the dependencies required to build a regions service.
type ServiceParams struct {
	Repo      repository
	CDN       uploader
	Deletions images.DeletionQueue
	Logger    *logger.Logger
}

// NewService constructs a regions service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("regions repository is required")
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

// Create registers a pending region and seats the creator as its first admin.
func (s *service) Create(ctx context.Context, creatorID uuid.UUID, req CreateRegionRequest) (*RegionDTO, error) {
	var coverURL *string
	if req.Cover != nil {
		result, err := s.cdn.Upload(ctx, req.Cover.Filename, req.Cover.Contents)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload cover image")
		}
		url := result.SecureURL
		coverURL = &url
	}

	region := &models.Region{
		Name:        req.Name,
		Description: req.Description,
		Status:      enums.RegionStatusPending,
		CoverImage:  coverURL,
		CreatedBy:   creatorID,
	}
	if err := s.repo.Create(ctx, region); err != nil {
		if coverURL != nil {
			s.deletions.QueueDeletionByURL(ctx, *coverURL, deletionSource)
		}
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "region name already taken")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create region")
	}

	member := &models.RegionMember{
		RegionID: region.ID,
		UserID:   creatorID,
		Role:     enums.RegionRoleAdmin,
	}
	if err := s.repo.CreateMember(ctx, member); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "seat region creator")
	}

	dto := FromModel(region)
	dto.MemberCount = 1
	return dto, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*RegionDTO, error) {
	region, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := FromModel(region)
	count, err := s.repo.CountMembers(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count members")
	}
	dto.MemberCount = count
	return dto, nil
}

func (s *service) ListActive(ctx context.Context) ([]RegionDTO, error) {
	return s.listByStatus(ctx, enums.RegionStatusActive)
}

func (s *service) ListPending(ctx context.Context) ([]RegionDTO, error) {
	return s.listByStatus(ctx, enums.RegionStatusPending)
}

func (s *service) listByStatus(ctx context.Context, status enums.RegionStatus) ([]RegionDTO, error) {
	rows, err := s.repo.ListByStatus(ctx, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list regions")
	}
	out := make([]RegionDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, actorID uuid.UUID, isAdmin bool, id uuid.UUID, req UpdateRegionRequest) (*RegionDTO, error) {
	region, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin {
		if err := s.requireRegionAdmin(ctx, id, actorID); err != nil {
			return nil, err
		}
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
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
			if db.IsUniqueViolation(err) {
				return nil, pkgerrors.New(pkgerrors.CodeConflict, "region name already taken")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update region")
		}
	}
	if req.Cover != nil && region.CoverImage != nil {
		s.deletions.QueueDeletionByURL(ctx, *region.CoverImage, deletionSource)
	}

	return s.Get(ctx, id)
}

// Approve transitions a pending region to active.
func (s *service) Approve(ctx context.Context, id uuid.UUID) (*RegionDTO, error) {
	return s.moderate(ctx, id, enums.RegionStatusActive)
}

// Reject transitions a pending region to rejected. The cron purge removes it
// after the retention window.
func (s *service) Reject(ctx context.Context, id uuid.UUID) (*RegionDTO, error) {
	return s.moderate(ctx, id, enums.RegionStatusRejected)
}

func (s *service) moderate(ctx context.Context, id uuid.UUID, status enums.RegionStatus) (*RegionDTO, error) {
	region, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if region.Status != enums.RegionStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeConflict,
			fmt.Sprintf("region is %s, only pending regions can be moderated", region.Status))
	}
	if err := s.repo.Update(ctx, id, map[string]any{"status": status}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "moderate region")
	}
	return s.Get(ctx, id)
}

func (s *service) Join(ctx context.Context, userID, regionID uuid.UUID) (*MemberDTO, error) {
	region, err := s.load(ctx, regionID)
	if err != nil {
		return nil, err
	}
	if region.Status != enums.RegionStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "region is not open for members")
	}

	member := &models.RegionMember{
		RegionID: regionID,
		UserID:   userID,
		Role:     enums.RegionRoleMember,
	}
	if err := s.repo.CreateMember(ctx, member); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "already a member of this region")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "join region")
	}
	return memberFromModel(member), nil
}

func (s *service) Leave(ctx context.Context, userID, regionID uuid.UUID) error {
	if _, err := s.repo.FindMember(ctx, regionID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "membership not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load membership")
	}
	if err := s.repo.DeleteMember(ctx, regionID, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "leave region")
	}
	return nil
}

func (s *service) SetMemberRole(ctx context.Context, actorID uuid.UUID, isAdmin bool, regionID, memberID uuid.UUID, role enums.RegionRole) error {
	if !role.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid region role")
	}
	if _, err := s.load(ctx, regionID); err != nil {
		return err
	}
	if !isAdmin {
		if err := s.requireRegionAdmin(ctx, regionID, actorID); err != nil {
			return err
		}
	}
	if _, err := s.repo.FindMember(ctx, regionID, memberID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "membership not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load membership")
	}
	if err := s.repo.UpdateMemberRole(ctx, regionID, memberID, role); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update member role")
	}
	return nil
}

func (s *service) Members(ctx context.Context, regionID uuid.UUID) ([]MemberDTO, error) {
	rows, err := s.repo.ListMembers(ctx, regionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list members")
	}
	out := make([]MemberDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *memberFromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Region, error) {
	region, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "region not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load region")
	}
	return region, nil
}

func (s *service) requireRegionAdmin(ctx context.Context, regionID, userID uuid.UUID) error {
	member, err := s.repo.FindMember(ctx, regionID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeForbidden, "region admin role required")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load membership")
	}
	if member.Role != enums.RegionRoleAdmin {
		return pkgerrors.New(pkgerrors.CodeForbidden, "region admin role required")
	}
	return nil
}
