package gear

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/temankemah/temankemah-backend/pkg/db/models"
)

// Repository persists gear lists, categories and items through gorm.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateList(ctx context.Context, list *models.GearList) error {
	return r.db.WithContext(ctx).Create(list).Error
}

func (r *Repository) FindListByID(ctx context.Context, id uuid.UUID) (*models.GearList, error) {
	var list models.GearList
	if err := r.db.WithContext(ctx).First(&list, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &list, nil
}

func (r *Repository) ListsByUser(ctx context.Context, userID uuid.UUID) ([]models.GearList, error) {
	var lists []models.GearList
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&lists).Error
	return lists, err
}

func (r *Repository) UpdateList(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).Model(&models.GearList{}).Where("id = ?", id).Updates(updates).Error
}

func (r *Repository) DeleteList(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var categoryIDs []uuid.UUID
		if err := tx.Model(&models.GearCategory{}).
			Where("list_id = ?", id).
			Pluck("id", &categoryIDs).Error; err != nil {
			return err
		}
		if len(categoryIDs) > 0 {
			if err := tx.Delete(&models.GearItem{}, "category_id IN ?", categoryIDs).Error; err != nil {
				return err
			}
		}
		if err := tx.Delete(&models.GearCategory{}, "list_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.GearList{}, "id = ?", id).Error
	})
}

// CreateCategory appends the category after the list's existing ones.
func (r *Repository) CreateCategory(ctx context.Context, category *models.GearCategory) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		next, err := nextSortOrder(tx, &models.GearCategory{}, "list_id = ?", category.ListID)
		if err != nil {
			return err
		}
		category.SortOrder = next
		return tx.Create(category).Error
	})
}

func (r *Repository) FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.GearCategory, error) {
	var category models.GearCategory
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *Repository) ListCategories(ctx context.Context, listID uuid.UUID) ([]models.GearCategory, error) {
	var categories []models.GearCategory
	err := r.db.WithContext(ctx).
		Where("list_id = ?", listID).
		Order("sort_order ASC, created_at ASC").
		Find(&categories).Error
	return categories, err
}

func (r *Repository) UpdateCategory(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).Model(&models.GearCategory{}).Where("id = ?", id).Updates(updates).Error
}

func (r *Repository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.GearItem{}, "category_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.GearCategory{}, "id = ?", id).Error
	})
}

// CreateItem appends the item after the category's existing ones.
func (r *Repository) CreateItem(ctx context.Context, item *models.GearItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		next, err := nextSortOrder(tx, &models.GearItem{}, "category_id = ?", item.CategoryID)
		if err != nil {
			return err
		}
		item.SortOrder = next
		return tx.Create(item).Error
	})
}

func (r *Repository) FindItemByID(ctx context.Context, id uuid.UUID) (*models.GearItem, error) {
	var item models.GearItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *Repository) ListItems(ctx context.Context, categoryIDs []uuid.UUID) ([]models.GearItem, error) {
	if len(categoryIDs) == 0 {
		return nil, nil
	}
	var items []models.GearItem
	err := r.db.WithContext(ctx).
		Where("category_id IN ?", categoryIDs).
		Order("sort_order ASC, created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *Repository) UpdateItem(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).Model(&models.GearItem{}).Where("id = ?", id).Updates(updates).Error
}

func (r *Repository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.GearItem{}, "id = ?", id).Error
}

// ReorderItems rewrites sort_order to the slice index inside one transaction.
// A mid-batch failure rolls back every assignment.
func (r *Repository) ReorderItems(ctx context.Context, categoryID uuid.UUID, itemIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for index, itemID := range itemIDs {
			result := tx.Model(&models.GearItem{}).
				Where("id = ? AND category_id = ?", itemID, categoryID).
				Update("sort_order", index)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return nil
	})
}

// ApplyTemplate bulk-inserts the catalog in one transaction, appending new
// categories after the list's existing ones.
func (r *Repository) ApplyTemplate(ctx context.Context, listID uuid.UUID, catalog []templateCategory) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		next, err := nextSortOrder(tx, &models.GearCategory{}, "list_id = ?", listID)
		if err != nil {
			return err
		}
		for offset, entry := range catalog {
			category := models.GearCategory{
				ListID:    listID,
				Name:      entry.Name,
				SortOrder: next + offset,
			}
			if err := tx.Create(&category).Error; err != nil {
				return err
			}
			for position, item := range entry.Items {
				row := models.GearItem{
					CategoryID: category.ID,
					Name:       item.Name,
					Weight:     item.weight(),
					Quantity:   item.Quantity,
					SortOrder:  position,
				}
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func nextSortOrder(tx *gorm.DB, model any, condition string, arg any) (int, error) {
	var max *int
	err := tx.Model(model).
		Where(condition, arg).
		Select("MAX(sort_order)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max + 1, nil
}
