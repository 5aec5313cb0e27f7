package gear

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/temankemah/temankemah-backend/pkg/db/models"
)

// CreateListRequest opens a new gear list.
type CreateListRequest struct {
	Title string `json:"title" validate:"required,min=1,max=200"`
}

// UpdateListRequest renames a list or toggles its visibility.
type UpdateListRequest struct {
	Title    *string `json:"title" validate:"omitempty,min=1,max=200"`
	IsPublic *bool   `json:"is_public"`
}

// CreateCategoryRequest adds a category to a list.
type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// UpdateCategoryRequest renames a category.
type UpdateCategoryRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// CreateItemRequest adds an item to a category.
type CreateItemRequest struct {
	Name     string          `json:"name" validate:"required,min=1,max=200"`
	Weight   decimal.Decimal `json:"weight"`
	Quantity int             `json:"quantity" validate:"required,gt=0"`
}

// UpdateItemRequest mutates an item.
type UpdateItemRequest struct {
	Name     *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Weight   *decimal.Decimal `json:"weight"`
	Quantity *int             `json:"quantity" validate:"omitempty,gt=0"`
	Checked  *bool            `json:"checked"`
}

// ReorderRequest carries the full ordering for one category's items.
type ReorderRequest struct {
	ItemIDs []uuid.UUID `json:"item_ids" validate:"required,min=1"`
}

// GearItemDTO is one checklist entry.
type GearItemDTO struct {
	ID         uuid.UUID       `json:"id"`
	CategoryID uuid.UUID       `json:"category_id"`
	Name       string          `json:"name"`
	Weight     decimal.Decimal `json:"weight"`
	Quantity   int             `json:"quantity"`
	SortOrder  int             `json:"sort_order"`
	Checked    bool            `json:"checked"`
	CreatedAt  time.Time       `json:"created_at"`
}

// GearCategoryDTO groups items with their weight rollup.
type GearCategoryDTO struct {
	ID            uuid.UUID       `json:"id"`
	ListID        uuid.UUID       `json:"list_id"`
	Name          string          `json:"name"`
	SortOrder     int             `json:"sort_order"`
	Items         []GearItemDTO   `json:"items"`
	Weight        decimal.Decimal `json:"weight"`
	WeightDisplay string          `json:"weight_display"`
}

// CategoryShare is one slice of the proportional weight breakdown.
type CategoryShare struct {
	CategoryID uuid.UUID       `json:"category_id"`
	Name       string          `json:"name"`
	Weight     decimal.Decimal `json:"weight"`
	Percent    decimal.Decimal `json:"percent"`
}

// GearListDTO is the summary shape without categories.
type GearListDTO struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	IsPublic  bool      `json:"is_public"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GearListDetailDTO is the full shape with rollups and breakdown.
type GearListDetailDTO struct {
	GearListDTO
	Categories         []GearCategoryDTO `json:"categories"`
	TotalWeight        decimal.Decimal   `json:"total_weight"`
	TotalWeightDisplay string            `json:"total_weight_display"`
	Breakdown          []CategoryShare   `json:"breakdown"`
}

func listFromModel(l *models.GearList) *GearListDTO {
	return &GearListDTO{
		ID:        l.ID,
		UserID:    l.UserID,
		Title:     l.Title,
		IsPublic:  l.IsPublic,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

func categoryFromModel(c *models.GearCategory) *GearCategoryDTO {
	return &GearCategoryDTO{
		ID:        c.ID,
		ListID:    c.ListID,
		Name:      c.Name,
		SortOrder: c.SortOrder,
		Items:     []GearItemDTO{},
	}
}

func itemFromModel(i *models.GearItem) *GearItemDTO {
	return &GearItemDTO{
		ID:         i.ID,
		CategoryID: i.CategoryID,
		Name:       i.Name,
		Weight:     i.Weight,
		Quantity:   i.Quantity,
		SortOrder:  i.SortOrder,
		Checked:    i.Checked,
		CreatedAt:  i.CreatedAt,
	}
}
