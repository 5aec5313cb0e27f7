package gear

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/temankemah/temankemah-backend/pkg/db/models"
	pkgerrors "github.com/temankemah/temankemah-backend/pkg/errors"
	"github.com/temankemah/temankemah-backend/pkg/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&models.GearList{}, &models.GearCategory{}, &models.GearItem{},
	))
	return conn
}

func testService(t *testing.T) Service {
	t.Helper()
	logg := logger.New(logger.Options{Level: zerolog.Disabled, Output: io.Discard})
	svc, err := NewService(ServiceParams{Repo: NewRepository(testDB(t)), Logger: logg})
	require.NoError(t, err)
	return svc
}

func grams(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func TestFormatWeight(t *testing.T) {
	assert.Equal(t, "0 g", FormatWeight(decimal.Zero))
	assert.Equal(t, "999 g", FormatWeight(grams(999)))
	assert.Equal(t, "1.00 kg", FormatWeight(grams(1000)))
	assert.Equal(t, "2.40 kg", FormatWeight(grams(2400)))
	assert.Equal(t, "1.25 kg", FormatWeight(grams(1253)))
}

func TestDetailRollsUpWeights(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()
	userID := uuid.New()

	list, err := svc.CreateList(ctx, userID, CreateListRequest{Title: "Carrier 60L"})
	require.NoError(t, err)

	sleep, err := svc.CreateCategory(ctx, userID, list.ID, CreateCategoryRequest{Name: "Tidur"})
	require.NoError(t, err)
	cook, err := svc.CreateCategory(ctx, userID, list.ID, CreateCategoryRequest{Name: "Masak"})
	require.NoError(t, err)
	empty, err := svc.CreateCategory(ctx, userID, list.ID, CreateCategoryRequest{Name: "Kosong"})
	require.NoError(t, err)

	_, err = svc.CreateItem(ctx, userID, sleep.ID, CreateItemRequest{Name: "Sleeping bag", Weight: grams(900), Quantity: 1})
	require.NoError(t, err)
	_, err = svc.CreateItem(ctx, userID, sleep.ID, CreateItemRequest{Name: "Matras", Weight: grams(350), Quantity: 2})
	require.NoError(t, err)
	_, err = svc.CreateItem(ctx, userID, cook.ID, CreateItemRequest{Name: "Gas", Weight: grams(200), Quantity: 2})
	require.NoError(t, err)

	detail, err := svc.Detail(ctx, userID, list.ID)
	require.NoError(t, err)
	require.Len(t, detail.Categories, 3)

	// 900 + 350*2 = 1600, 200*2 = 400, total 2000
	assert.True(t, detail.Categories[0].Weight.Equal(grams(1600)), detail.Categories[0].Weight.String())
	assert.Equal(t, "1.60 kg", detail.Categories[0].WeightDisplay)
	assert.True(t, detail.Categories[1].Weight.Equal(grams(400)))
	assert.Equal(t, "400 g", detail.Categories[1].WeightDisplay)
	assert.True(t, detail.TotalWeight.Equal(grams(2000)))
	assert.Equal(t, "2.00 kg", detail.TotalWeightDisplay)

	require.Len(t, detail.Breakdown, 2, "zero-weight category must not appear")
	for _, share := range detail.Breakdown {
		assert.NotEqual(t, empty.ID, share.CategoryID)
	}
	assert.True(t, detail.Breakdown[0].Percent.Equal(decimal.NewFromInt(80)))
	assert.True(t, detail.Breakdown[1].Percent.Equal(decimal.NewFromInt(20)))
}

func TestPrivateListVisibility(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()
	ownerID := uuid.New()

	list, err := svc.CreateList(ctx, ownerID, CreateListRequest{Title: "Rahasia"})
	require.NoError(t, err)

	_, err = svc.Detail(ctx, uuid.Nil, list.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())

	_, err = svc.Detail(ctx, uuid.New(), list.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())

	_, err = svc.Detail(ctx, ownerID, list.ID)
	require.NoError(t, err)

	public := true
	_, err = svc.UpdateList(ctx, ownerID, list.ID, UpdateListRequest{IsPublic: &public})
	require.NoError(t, err)

	_, err = svc.Detail(ctx, uuid.Nil, list.ID)
	require.NoError(t, err)
}

func TestReorderAppliesPermutation(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()
	userID := uuid.New()

	list, _ := svc.CreateList(ctx, userID, CreateListRequest{Title: "Urutan"})
	category, _ := svc.CreateCategory(ctx, userID, list.ID, CreateCategoryRequest{Name: "Alat"})

	var ids []uuid.UUID
	for _, name := range []string{"a", "b", "c"} {
		item, err := svc.CreateItem(ctx, userID, category.ID, CreateItemRequest{Name: name, Weight: grams(10), Quantity: 1})
		require.NoError(t, err)
		ids = append(ids, item.ID)
	}

	reversed := []uuid.UUID{ids[2], ids[1], ids[0]}
	require.NoError(t, svc.Reorder(ctx, userID, category.ID, ReorderRequest{ItemIDs: reversed}))

	detail, err := svc.Detail(ctx, userID, list.ID)
	require.NoError(t, err)
	items := detail.Categories[0].Items
	require.Len(t, items, 3)
	assert.Equal(t, "c", items[0].Name)
	assert.Equal(t, "b", items[1].Name)
	assert.Equal(t, "a", items[2].Name)
}

func TestReorderRejectsNonPermutations(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()
	userID := uuid.New()

	list, _ := svc.CreateList(ctx, userID, CreateListRequest{Title: "Urutan"})
	alat, _ := svc.CreateCategory(ctx, userID, list.ID, CreateCategoryRequest{Name: "Alat"})
	lain, _ := svc.CreateCategory(ctx, userID, list.ID, CreateCategoryRequest{Name: "Lain"})

	a, _ := svc.CreateItem(ctx, userID, alat.ID, CreateItemRequest{Name: "a", Weight: grams(10), Quantity: 1})
	_, err := svc.CreateItem(ctx, userID, alat.ID, CreateItemRequest{Name: "b", Weight: grams(10), Quantity: 1})
	require.NoError(t, err)
	other, _ := svc.CreateItem(ctx, userID, lain.ID, CreateItemRequest{Name: "x", Weight: grams(10), Quantity: 1})

	// missing an item
	err = svc.Reorder(ctx, userID, alat.ID, ReorderRequest{ItemIDs: []uuid.UUID{a.ID}})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	// cross-category id
	err = svc.Reorder(ctx, userID, alat.ID, ReorderRequest{ItemIDs: []uuid.UUID{a.ID, other.ID}})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	// duplicate id
	err = svc.Reorder(ctx, userID, alat.ID, ReorderRequest{ItemIDs: []uuid.UUID{a.ID, a.ID}})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestApplyTemplateAppendsAfterExistingCategories(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()
	userID := uuid.New()

	list, _ := svc.CreateList(ctx, userID, CreateListRequest{Title: "Dari Template"})
	existing, err := svc.CreateCategory(ctx, userID, list.ID, CreateCategoryRequest{Name: "Sudah Ada"})
	require.NoError(t, err)

	detail, err := svc.ApplyTemplate(ctx, userID, list.ID)
	require.NoError(t, err)
	require.Len(t, detail.Categories, 1+len(starterTemplate))
	assert.Equal(t, existing.ID, detail.Categories[0].ID)
	assert.Equal(t, "Tenda & Tidur", detail.Categories[1].Name)
	assert.True(t, detail.TotalWeight.IsPositive())

	for _, category := range detail.Categories[1:] {
		for index, item := range category.Items {
			assert.Equal(t, index, item.SortOrder)
		}
	}
}

func TestMutationsAreOwnerOnly(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()
	ownerID := uuid.New()
	strangerID := uuid.New()

	list, _ := svc.CreateList(ctx, ownerID, CreateListRequest{Title: "Milik Saya"})
	category, _ := svc.CreateCategory(ctx, ownerID, list.ID, CreateCategoryRequest{Name: "Alat"})
	item, _ := svc.CreateItem(ctx, ownerID, category.ID, CreateItemRequest{Name: "Headlamp", Weight: grams(90), Quantity: 1})

	_, err := svc.CreateCategory(ctx, strangerID, list.ID, CreateCategoryRequest{Name: "Nebeng"})
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())

	err = svc.DeleteItem(ctx, strangerID, item.ID)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())

	err = svc.DeleteList(ctx, strangerID, list.ID)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())

	require.NoError(t, svc.DeleteList(ctx, ownerID, list.ID))
}
