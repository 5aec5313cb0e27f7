package activities

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/temankemah/temankemah-backend/internal/images"
	"github.com/temankemah/temankemah-backend/internal/users"
	"github.com/temankemah/temankemah-backend/pkg/cdn"
	"github.com/temankemah/temankemah-backend/pkg/db/models"
	pkgerrors "github.com/temankemah/temankemah-backend/pkg/errors"
	"github.com/temankemah/temankemah-backend/pkg/logger"
	"github.com/temankemah/temankemah-backend/pkg/pagination"
)

// MaxAdditionalImagesMessage is returned verbatim when the image cap is hit.
const MaxAdditionalImagesMessage = "Maksimal 10 foto tambahan diperbolehkan"

const deletionSource = "activities"

// Service defines the behavior needed by the activity controllers.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, req CreateActivityRequest) (*ActivityDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*ActivityDTO, error)
	List(ctx context.Context, params ListParams) (*ActivityPage, error)
	Update(ctx context.Context, userID, id uuid.UUID, req UpdateActivityRequest) (*ActivityDTO, error)
	Delete(ctx context.Context, userID uuid.UUID, isAdmin bool, id uuid.UUID) error
}

type repository interface {
	Create(ctx context.Context, activity *models.Activity) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Activity, error)
	List(ctx context.Context, params ListParams, cursor *pagination.Cursor, fetch int) ([]models.Activity, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	UpdateImages(ctx context.Context, id uuid.UUID, cover *string, additional []string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type uploader interface {
	Upload(ctx context.Context, filename string, contents io.Reader) (*cdn.UploadResult, error)
}

type expAwarder interface {
	AwardExp(ctx context.Context, id uuid.UUID, points int) error
}

// Counts carries per-activity interaction totals.
type Counts struct {
	Likes    int64
	Comments int64
}

type countsProvider interface {
	CountForActivities(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]Counts, error)
}

type service struct {
	repo      repository
	cdn       uploader
	deletions images.DeletionQueue
	exp       expAwarder
	counts    countsProvider
	logg      *logger.Logger
	maxImages int
}

// ServiceParams bundles the dependencies required to build an activities service.
type ServiceParams struct {
	Repo                repository
	CDN                 uploader
	Deletions           images.DeletionQueue
	Exp                 expAwarder
	Counts              countsProvider
	Logger              *logger.Logger
	MaxAdditionalImages int
}

// NewService constructs an activities service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("activities repository is required")
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
		exp:       params.Exp,
		counts:    params.Counts,
		logg:      params.Logger,
		maxImages: maxImages,
	}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, req CreateActivityRequest) (*ActivityDTO, error) {
	if len(req.AdditionalImages) > s.maxImages {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, MaxAdditionalImagesMessage)
	}

	coverURL, additionalURLs, err := s.uploadImages(ctx, req.Cover, req.AdditionalImages)
	if err != nil {
		return nil, err
	}

	activity := &models.Activity{
		UserID:           userID,
		RegionID:         req.RegionID,
		CategoryID:       req.CategoryID,
		Title:            req.Title,
		Description:      req.Description,
		Date:             req.Date,
		Location:         req.Location,
		CoverImage:       coverURL,
		AdditionalImages: pq.StringArray(additionalURLs),
	}
	if err := s.repo.Create(ctx, activity); err != nil {
		s.cleanupUploads(ctx, coverURL, additionalURLs)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create activity")
	}

	// EXP is best effort: a failed award never rolls back the post.
	if s.exp != nil {
		if err := s.exp.AwardExp(ctx, userID, users.ExpActivityCreated); err != nil {
			s.logg.Error(s.logg.WithField(ctx, "activity_id", activity.ID.String()), "award activity exp", err)
		}
	}

	return s.hydrate(ctx, activity)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ActivityDTO, error) {
	activity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "activity not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load activity")
	}
	return s.hydrate(ctx, activity)
}

func (s *service) List(ctx context.Context, params ListParams) (*ActivityPage, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	rows, err := s.repo.List(ctx, params, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list activities")
	}

	page, hasMore := pagination.TrimPage(rows, params.Limit)
	items := make([]ActivityDTO, 0, len(page))
	ids := make([]uuid.UUID, 0, len(page))
	for i := range page {
		items = append(items, *FromModel(&page[i]))
		ids = append(ids, page[i].ID)
	}

	if err := s.applyCounts(ctx, ids, items); err != nil {
		return nil, err
	}

	result := &ActivityPage{Items: items}
	if hasMore && len(page) > 0 {
		last := page[len(page)-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return result, nil
}

func (s *service) Update(ctx context.Context, userID, id uuid.UUID, req UpdateActivityRequest) (*ActivityDTO, error) {
	activity, err := s.loadOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Date != nil {
		updates["date"] = *req.Date
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.RegionID != nil {
		updates["region_id"] = *req.RegionID
	}
	if req.CategoryID != nil {
		updates["category_id"] = *req.CategoryID
	}
	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update activity")
		}
	}

	if err := s.reconcileImages(ctx, activity, req); err != nil {
		return nil, err
	}

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload activity")
	}
	return s.hydrate(ctx, updated)
}

func (s *service) Delete(ctx context.Context, userID uuid.UUID, isAdmin bool, id uuid.UUID) error {
	activity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "activity not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load activity")
	}
	if !isAdmin && activity.UserID != userID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only the owner may delete this activity")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete activity")
	}

	if activity.CoverImage != nil {
		s.deletions.QueueDeletionByURL(ctx, *activity.CoverImage, deletionSource)
	}
	for _, url := range activity.AdditionalImages {
		s.deletions.QueueDeletionByURL(ctx, url, deletionSource)
	}
	return nil
}

// reconcileImages applies the kept-URLs diff and optional cover replacement.
func (s *service) reconcileImages(ctx context.Context, activity *models.Activity, req UpdateActivityRequest) error {
	imagesTouched := req.Cover != nil || req.KeptImageURLs != nil || len(req.AdditionalImages) > 0

	if !imagesTouched {
		return nil
	}

	kept := req.KeptImageURLs
	if kept == nil {
		kept = append([]string{}, activity.AdditionalImages...)
	} else {
		kept = intersect(kept, activity.AdditionalImages)
	}

	if len(kept)+len(req.AdditionalImages) > s.maxImages {
		return pkgerrors.New(pkgerrors.CodeValidation, MaxAdditionalImagesMessage)
	}

	newURLs, err := s.uploadBatch(ctx, req.AdditionalImages)
	if err != nil {
		return err
	}

	newCover := activity.CoverImage
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
	if err := s.repo.UpdateImages(ctx, activity.ID, newCover, finalImages); err != nil {
		s.cleanupUploads(ctx, nil, newURLs)
		if req.Cover != nil && newCover != nil {
			s.deletions.QueueDeletionByURL(ctx, *newCover, deletionSource)
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist image changes")
	}

	// Removed assets are destroyed only after the row is committed.
	if req.Cover != nil && activity.CoverImage != nil {
		s.deletions.QueueDeletionByURL(ctx, *activity.CoverImage, deletionSource)
	}
	for _, url := range activity.AdditionalImages {
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

// uploadBatch aborts on the first failed upload and queues the completed ones
// for deletion.
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

func (s *service) hydrate(ctx context.Context, activity *models.Activity) (*ActivityDTO, error) {
	dto := FromModel(activity)
	items := []ActivityDTO{*dto}
	if err := s.applyCounts(ctx, []uuid.UUID{activity.ID}, items); err != nil {
		return nil, err
	}
	return &items[0], nil
}

func (s *service) applyCounts(ctx context.Context, ids []uuid.UUID, items []ActivityDTO) error {
	if s.counts == nil || len(ids) == 0 {
		return nil
	}
	counts, err := s.counts.CountForActivities(ctx, ids)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load interaction counts")
	}
	for i := range items {
		if c, ok := counts[items[i].ID]; ok {
			items[i].LikeCount = c.Likes
			items[i].CommentCount = c.Comments
		}
	}
	return nil
}

func (s *service) loadOwned(ctx context.Context, userID, id uuid.UUID) (*models.Activity, error) {
	activity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "activity not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load activity")
	}
	if activity.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the owner may modify this activity")
	}
	return activity, nil
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
