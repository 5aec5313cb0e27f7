package campareas

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/temankemah/temankemah-backend/internal/images"
	"github.com/temankemah/temankemah-backend/pkg/cdn"
	"github.com/temankemah/temankemah-backend/pkg/db/models"
	pkgerrors "github.com/temankemah/temankemah-backend/pkg/errors"
	"github.com/temankemah/temankemah-backend/pkg/logger"
	"github.com/temankemah/temankemah-backend/pkg/pagination"
)

// MaxAdditionalImagesMessage is returned verbatim when the image cap is hit.
const MaxAdditionalImagesMessage = "Maksimal 10 foto tambahan diperbolehkan"

const deletionSource = "camp_areas"

// Service defines the behavior needed by the camp area controllers.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, req CreateCampAreaRequest) (*CampAreaDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*CampAreaDTO, error)
	List(ctx context.Context, params ListParams) (*CampAreaPage, error)
	Update(ctx context.Context, userID, id uuid.UUID, req UpdateCampAreaRequest) (*CampAreaDTO, error)
	Delete(ctx context.Context, userID uuid.UUID, isAdmin bool, id uuid.UUID) error
}

type repository interface {
	Create(ctx context.Context, area *models.CampArea) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.CampArea, error)
	List(ctx context.Context, params ListParams, cursor *pagination.Cursor, fetch int) ([]models.CampArea, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	UpdateImages(ctx context.Context, id uuid.UUID, cover *string, additional []string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type uploader interface {
	Upload(ctx context.Context, filename string, contents io.Reader) (*cdn.UploadResult, error)
}

type service struct {
	repo      repository
	cdn       uploader
	deletions images.DeletionQueue
	logg      *logger.Logger
	maxImages int
}

// ServiceParams bundles the dependencies required to build a camp area service.
type ServiceParams struct {
	Repo                repository
	CDN                 uploader
	Deletions           images.DeletionQueue
	Logger              *logger.Logger
	MaxAdditionalImages int
}

// NewService constructs a camp area service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("camp area repository is required")
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
	maxImages := params.MaxAdditionalImages
	if maxImages <= 0 {
		maxImages = 10
	}
	return &service{
		repo:      params.Repo,
		cdn:       params.CDN,
		deletions: params.Deletions,
		logg:      params.Logger,
		maxImages: maxImages,
	}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, req CreateCampAreaRequest) (*CampAreaDTO, error) {
	if len(req.AdditionalImages) > s.maxImages {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, MaxAdditionalImagesMessage)
	}

	coverURL, additionalURLs, err := s.uploadImages(ctx, req.Cover, req.AdditionalImages)
	if err != nil {
		return nil, err
	}

	area := &models.CampArea{
		UserID:           userID,
		Name:             req.Name,
		Location:         req.Location,
		Description:      req.Description,
		Price:            req.Price,
		Facilities:       pq.StringArray(req.Facilities),
		CoverImage:       coverURL,
		AdditionalImages: pq.StringArray(additionalURLs),
	}
	if err := s.repo.Create(ctx, area); err != nil {
		s.cleanupUploads(ctx, coverURL, additionalURLs)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create camp area")
	}
	return FromModel(area), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*CampAreaDTO, error) {
	area, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "camp area not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load camp area")
	}
	return FromModel(area), nil
}

func (s *service) List(ctx context.Context, params ListParams) (*CampAreaPage, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	rows, err := s.repo.List(ctx, params, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list camp areas")
	}

	page, hasMore := pagination.TrimPage(rows, params.Limit)
	items := make([]CampAreaDTO, 0, len(page))
	for i := range page {
		items = append(items, *FromModel(&page[i]))
	}

	result := &CampAreaPage{Items: items}
	if hasMore && len(page) > 0 {
		last := page[len(page)-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return result, nil
}

func (s *service) Update(ctx context.Context, userID, id uuid.UUID, req UpdateCampAreaRequest) (*CampAreaDTO, error) {
	area, err := s.loadOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Facilities != nil {
		updates["facilities"] = pq.StringArray(req.Facilities)
	}
	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update camp area")
		}
	}

	if err := s.reconcileImages(ctx, area, req); err != nil {
		return nil, err
	}

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload camp area")
	}
	return FromModel(updated), nil
}

func (s *service) Delete(ctx context.Context, userID uuid.UUID, isAdmin bool, id uuid.UUID) error {
	area, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "camp area not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load camp area")
	}
	if !isAdmin && area.UserID != userID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only the owner may delete this camp area")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete camp area")
	}

	if area.CoverImage != nil {
		s.deletions.QueueDeletionByURL(ctx, *area.CoverImage, deletionSource)
	}
	for _, url := range area.AdditionalImages {
		s.deletions.QueueDeletionByURL(ctx, url, deletionSource)
	}
	return nil
}

func (s *service) reconcileImages(ctx context.Context, area *models.CampArea, req UpdateCampAreaRequest) error {
	if req.Cover == nil && req.KeptImageURLs == nil && len(req.AdditionalImages) == 0 {
		return nil
	}

	kept := req.KeptImageURLs
	if kept == nil {
		kept = append([]string{}, area.AdditionalImages...)
	} else {
		kept = intersect(kept, area.AdditionalImages)
	}

	if len(kept)+len(req.AdditionalImages) > s.maxImages {
		return pkgerrors.New(pkgerrors.CodeValidation, MaxAdditionalImagesMessage)
	}

	newURLs, err := s.uploadBatch(ctx, req.AdditionalImages)
	if err != nil {
		return err
	}

	newCover := area.CoverImage
	if req.Cover != nil {
		result, err := s.cdn.Upload(ctx, req.Cover.Filename, req.Cover.Contents)
		if err != nil {
			s.cleanupUploads(ctx, nil, newURLs)
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload cover image")
		}
		url := result.SecureURL
		newCover = &url
	}

	finalImages := append(append([]string{}, kept...), newURLs...)
	if err := s.repo.UpdateImages(ctx, area.ID, newCover, finalImages); err != nil {
		s.cleanupUploads(ctx, nil, newURLs)
		if req.Cover != nil && newCover != nil {
			s.deletions.QueueDeletionByURL(ctx, *newCover, deletionSource)
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist image changes")
	}

	if req.Cover != nil && area.CoverImage != nil {
		s.deletions.QueueDeletionByURL(ctx, *area.CoverImage, deletionSource)
	}
	for _, url := range area.AdditionalImages {
		if !contains(finalImages, url) {
			s.deletions.QueueDeletionByURL(ctx, url, deletionSource)
		}
	}
	return nil
}

func (s *service) uploadImages(ctx context.Context, cover *Upload, additional []Upload) (*string, []string, error) {
	var coverURL *string
	if cover != nil {
		result, err := s.cdn.Upload(ctx, cover.Filename, cover.Contents)
		if err != nil {
			return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload cover image")
		}
		url := result.SecureURL
		coverURL = &url
	}

	urls, err := s.uploadBatch(ctx, additional)
	if err != nil {
		s.cleanupUploads(ctx, coverURL, nil)
		return nil, nil, err
	}
	return coverURL, urls, nil
}

func (s *service) uploadBatch(ctx context.Context, uploads []Upload) ([]string, error) {
	urls := make([]string, 0, len(uploads))
	for i, upload := range uploads {
		result, err := s.cdn.Upload(ctx, upload.Filename, upload.Contents)
		if err != nil {
			s.cleanupUploads(ctx, nil, urls)
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("upload additional image %d", i+1))
		}
		urls = append(urls, result.SecureURL)
	}
	return urls, nil
}

func (s *service) cleanupUploads(ctx context.Context, cover *string, urls []string) {
	if cover != nil {
		s.deletions.QueueDeletionByURL(ctx, *cover, deletionSource)
	}
	for _, url := range urls {
		s.deletions.QueueDeletionByURL(ctx, url, deletionSource)
	}
}

func (s *service) loadOwned(ctx context.Context, userID, id uuid.UUID) (*models.CampArea, error) {
	area, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "camp area not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load camp area")
	}
	if area.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the owner may modify this camp area")
	}
	return area, nil
}

func intersect(keep, existing []string) []string {
	out := make([]string, 0, len(keep))
	for _, url := range keep {
		if contains(existing, url) {
			out = append(out, url)
		}
	}
	return out
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
