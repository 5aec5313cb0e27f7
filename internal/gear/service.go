package gear

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/temankemah/temankemah-backend/pkg/db/models"
	pkgerrors "github.com/temankemah/temankemah-backend/pkg/errors"
	"github.com/temankemah/temankemah-backend/pkg/logger"
)

// Service defines the behavior needed by the gear controllers.
type Service interface {
	CreateList(ctx context.Context, userID uuid.UUID, req CreateListRequest) (*GearListDTO, error)
	Lists(ctx context.Context, userID uuid.UUID) ([]GearListDTO, error)
	Detail(ctx context.Context, viewerID, listID uuid.UUID) (*GearListDetailDTO, error)
	UpdateList(ctx context.Context, userID, listID uuid.UUID, req UpdateListRequest) (*GearListDTO, error)
	DeleteList(ctx context.Context, userID, listID uuid.UUID) error

	CreateCategory(ctx context.Context, userID, listID uuid.UUID, req CreateCategoryRequest) (*GearCategoryDTO, error)
	UpdateCategory(ctx context.Context, userID, categoryID uuid.UUID, req UpdateCategoryRequest) (*GearCategoryDTO, error)
	DeleteCategory(ctx context.Context, userID, categoryID uuid.UUID) error

	CreateItem(ctx context.Context, userID, categoryID uuid.UUID, req CreateItemRequest) (*GearItemDTO, error)
	UpdateItem(ctx context.Context, userID, itemID uuid.UUID, req UpdateItemRequest) (*GearItemDTO, error)
	DeleteItem(ctx context.Context, userID, itemID uuid.UUID) error

	Reorder(ctx context.Context, userID, categoryID uuid.UUID, req ReorderRequest) error
	ApplyTemplate(ctx context.Context, userID, listID uuid.UUID) (*GearListDetailDTO, error)
}

type repository interface {
	CreateList(ctx context.Context, list *models.GearList) error
	FindListByID(ctx context.Context, id uuid.UUID) (*models.GearList, error)
	ListsByUser(ctx context.Context, userID uuid.UUID) ([]models.GearList, error)
	UpdateList(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeleteList(ctx context.Context, id uuid.UUID) error

	CreateCategory(ctx context.Context, category *models.GearCategory) error
	FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.GearCategory, error)
	ListCategories(ctx context.Context, listID uuid.UUID) ([]models.GearCategory, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	CreateItem(ctx context.Context, item *models.GearItem) error
	FindItemByID(ctx context.Context, id uuid.UUID) (*models.GearItem, error)
	ListItems(ctx context.Context, categoryIDs []uuid.UUID) ([]models.GearItem, error)
	UpdateItem(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeleteItem(ctx context.Context, id uuid.UUID) error

	ReorderItems(ctx context.Context, categoryID uuid.UUID, itemIDs []uuid.UUID) error
	ApplyTemplate(ctx context.Context, listID uuid.UUID, catalog []templateCategory) error
}

type service struct {
	repo repository
	logg *logger.Logger
}

// ServiceParams bundles the dependencies required to build a gear service.
type ServiceParams struct {
	Repo   repository
	Logger *logger.Logger
}

// NewService constructs a gear service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("gear repository is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{repo: params.Repo, logg: params.Logger}, nil
}

func (s *service) CreateList(ctx context.Context, userID uuid.UUID, req CreateListRequest) (*GearListDTO, error) {
	list := &models.GearList{UserID: userID, Title: req.Title}
	if err := s.repo.CreateList(ctx, list); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create gear list")
	}
	return listFromModel(list), nil
}

func (s *service) Lists(ctx context.Context, userID uuid.UUID) ([]GearListDTO, error) {
	rows, err := s.repo.ListsByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list gear lists")
	}
	out := make([]GearListDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *listFromModel(&rows[i]))
	}
	return out, nil
}

// Detail returns the full list with rollups. Private lists are visible to
// their owner only, anonymous viewers included.
func (s *service) Detail(ctx context.Context, viewerID, listID uuid.UUID) (*GearListDetailDTO, error) {
	list, err := s.loadList(ctx, listID)
	if err != nil {
		return nil, err
	}
	if !list.IsPublic && list.UserID != viewerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "this gear list is private")
	}
	return s.buildDetail(ctx, list)
}

func (s *service) UpdateList(ctx context.Context, userID, listID uuid.UUID, req UpdateListRequest) (*GearListDTO, error) {
	if _, err := s.loadOwnedList(ctx, userID, listID); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.IsPublic != nil {
		updates["is_public"] = *req.IsPublic
	}
	if len(updates) > 0 {
		if err := s.repo.UpdateList(ctx, listID, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update gear list")
		}
	}

	list, err := s.loadList(ctx, listID)
	if err != nil {
		return nil, err
	}
	return listFromModel(list), nil
}

func (s *service) DeleteList(ctx context.Context, userID, listID uuid.UUID) error {
	if _, err := s.loadOwnedList(ctx, userID, listID); err != nil {
		return err
	}
	if err := s.repo.DeleteList(ctx, listID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete gear list")
	}
	return nil
}

func (s *service) CreateCategory(ctx context.Context, userID, listID uuid.UUID, req CreateCategoryRequest) (*GearCategoryDTO, error) {
	if _, err := s.loadOwnedList(ctx, userID, listID); err != nil {
		return nil, err
	}
	category := &models.GearCategory{ListID: listID, Name: req.Name}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create gear category")
	}
	return categoryFromModel(category), nil
}

func (s *service) UpdateCategory(ctx context.Context, userID, categoryID uuid.UUID, req UpdateCategoryRequest) (*GearCategoryDTO, error) {
	category, err := s.loadOwnedCategory(ctx, userID, categoryID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateCategory(ctx, categoryID, map[string]any{"name": req.Name}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update gear category")
	}
	category.Name = req.Name
	return categoryFromModel(category), nil
}

func (s *service) DeleteCategory(ctx context.Context, userID, categoryID uuid.UUID) error {
	if _, err := s.loadOwnedCategory(ctx, userID, categoryID); err != nil {
		return err
	}
	if err := s.repo.DeleteCategory(ctx, categoryID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete gear category")
	}
	return nil
}

func (s *service) CreateItem(ctx context.Context, userID, categoryID uuid.UUID, req CreateItemRequest) (*GearItemDTO, error) {
	if _, err := s.loadOwnedCategory(ctx, userID, categoryID); err != nil {
		return nil, err
	}
	if req.Weight.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "weight cannot be negative")
	}
	item := &models.GearItem{
		CategoryID: categoryID,
		Name:       req.Name,
		Weight:     req.Weight,
		Quantity:   req.Quantity,
	}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create gear item")
	}
	return itemFromModel(item), nil
}

func (s *service) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, req UpdateItemRequest) (*GearItemDTO, error) {
	if _, err := s.loadOwnedItem(ctx, userID, itemID); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Weight != nil {
		if req.Weight.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "weight cannot be negative")
		}
		updates["weight"] = *req.Weight
	}
	if req.Quantity != nil {
		updates["quantity"] = *req.Quantity
	}
	if req.Checked != nil {
		updates["checked"] = *req.Checked
	}
	if len(updates) > 0 {
		if err := s.repo.UpdateItem(ctx, itemID, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update gear item")
		}
	}

	updated, err := s.repo.FindItemByID(ctx, itemID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload gear item")
	}
	return itemFromModel(updated), nil
}

func (s *service) DeleteItem(ctx context.Context, userID, itemID uuid.UUID) error {
	if _, err := s.loadOwnedItem(ctx, userID, itemID); err != nil {
		return err
	}
	if err := s.repo.DeleteItem(ctx, itemID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete gear item")
	}
	return nil
}

// Reorder validates that the request is a permutation of the category's items
// before rewriting sort orders in one transaction.
func (s *service) Reorder(ctx context.Context, userID, categoryID uuid.UUID, req ReorderRequest) error {
	if _, err := s.loadOwnedCategory(ctx, userID, categoryID); err != nil {
		return err
	}

	current, err := s.repo.ListItems(ctx, []uuid.UUID{categoryID})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list category items")
	}
	if len(req.ItemIDs) != len(current) {
		return pkgerrors.New(pkgerrors.CodeValidation, "item_ids must list every item in the category exactly once")
	}
	existing := make(map[uuid.UUID]bool, len(current))
	for _, item := range current {
		existing[item.ID] = true
	}
	seen := make(map[uuid.UUID]bool, len(req.ItemIDs))
	for _, id := range req.ItemIDs {
		if !existing[id] {
			return pkgerrors.New(pkgerrors.CodeValidation, "item_ids contains an item outside this category")
		}
		if seen[id] {
			return pkgerrors.New(pkgerrors.CodeValidation, "item_ids contains a duplicate")
		}
		seen[id] = true
	}

	if err := s.repo.ReorderItems(ctx, categoryID, req.ItemIDs); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reorder items")
	}
	return nil
}

// ApplyTemplate bulk-inserts the starter catalog and returns the new detail.
func (s *service) ApplyTemplate(ctx context.Context, userID, listID uuid.UUID) (*GearListDetailDTO, error) {
	list, err := s.loadOwnedList(ctx, userID, listID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.ApplyTemplate(ctx, listID, starterTemplate); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "apply gear template")
	}
	return s.buildDetail(ctx, list)
}

func (s *service) buildDetail(ctx context.Context, list *models.GearList) (*GearListDetailDTO, error) {
	categories, err := s.repo.ListCategories(ctx, list.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list categories")
	}

	categoryIDs := make([]uuid.UUID, 0, len(categories))
	for _, category := range categories {
		categoryIDs = append(categoryIDs, category.ID)
	}
	items, err := s.repo.ListItems(ctx, categoryIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list items")
	}

	itemsByCategory := map[uuid.UUID][]GearItemDTO{}
	for i := range items {
		dto := itemFromModel(&items[i])
		itemsByCategory[dto.CategoryID] = append(itemsByCategory[dto.CategoryID], *dto)
	}

	detail := &GearListDetailDTO{
		GearListDTO: *listFromModel(list),
		Categories:  make([]GearCategoryDTO, 0, len(categories)),
	}
	total := decimal.Zero
	for i := range categories {
		dto := categoryFromModel(&categories[i])
		if grouped, ok := itemsByCategory[dto.ID]; ok {
			dto.Items = grouped
		}
		dto.Weight = categoryWeight(dto.Items)
		dto.WeightDisplay = FormatWeight(dto.Weight)
		total = total.Add(dto.Weight)
		detail.Categories = append(detail.Categories, *dto)
	}
	detail.TotalWeight = total
	detail.TotalWeightDisplay = FormatWeight(total)

	// zero-weight categories carry no share of the breakdown
	if total.IsPositive() {
		hundred := decimal.NewFromInt(100)
		for _, category := range detail.Categories {
			if !category.Weight.IsPositive() {
				continue
			}
			detail.Breakdown = append(detail.Breakdown, CategoryShare{
				CategoryID: category.ID,
				Name:       category.Name,
				Weight:     category.Weight,
				Percent:    category.Weight.Mul(hundred).DivRound(total, 2),
			})
		}
	}
	return detail, nil
}

func (s *service) loadList(ctx context.Context, id uuid.UUID) (*models.GearList, error) {
	list, err := s.repo.FindListByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "gear list not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load gear list")
	}
	return list, nil
}

func (s *service) loadOwnedList(ctx context.Context, userID, id uuid.UUID) (*models.GearList, error) {
	list, err := s.loadList(ctx, id)
	if err != nil {
		return nil, err
	}
	if list.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the owner may modify this gear list")
	}
	return list, nil
}

func (s *service) loadOwnedCategory(ctx context.Context, userID, categoryID uuid.UUID) (*models.GearCategory, error) {
	category, err := s.repo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "gear category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load gear category")
	}
	if _, err := s.loadOwnedList(ctx, userID, category.ListID); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *service) loadOwnedItem(ctx context.Context, userID, itemID uuid.UUID) (*models.GearItem, error) {
	item, err := s.repo.FindItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "gear item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load gear item")
	}
	if _, err := s.loadOwnedCategory(ctx, userID, item.CategoryID); err != nil {
		return nil, err
	}
	return item, nil
}
