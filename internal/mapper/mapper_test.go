package mapper_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/catalog-service/internal/dto"
	"github.com/tuanvumaihuynh/catalog-service/internal/mapper"
	"github.com/tuanvumaihuynh/catalog-service/internal/model"
	"github.com/tuanvumaihuynh/catalog-service/pkg/ptr"
)

func TestCategoryRoundTrip(t *testing.T) {
	req := dto.CategoryRequest{Code: "C1", Name: "Tools", Description: "Hand tools"}

	res := mapper.CategoryToResponse(mapper.CategoryRequestToModel(&req))
	require.NotNil(t, res)

	assert.Equal(t, req.Code, res.Code)
	assert.Equal(t, req.Name, res.Name)
	assert.Equal(t, req.Description, res.Description)
	assert.Zero(t, res.ID)
}

func TestItemRoundTrip(t *testing.T) {
	price := dto.MustMoney("9.99")
	req := dto.ItemRequest{
		Sku:         "S1",
		Name:        "Hammer",
		Description: "Claw hammer",
		Price:       &price,
		Stock:       5,
		CategoryID:  ptr.New(int64(1)),
	}

	res := mapper.ItemToResponse(mapper.ItemRequestToModel(&req))
	require.NotNil(t, res)

	assert.Equal(t, req.Sku, res.Sku)
	assert.Equal(t, req.Name, res.Name)
	assert.Equal(t, req.Description, res.Description)
	assert.True(t, req.Price.Equal(res.Price.Decimal))
	assert.Equal(t, req.Stock, res.Stock)
	assert.Equal(t, int64(1), res.CategoryID)
	assert.Nil(t, res.Category, "unresolved category must not be embedded")
}

func TestItemRequestRoundsPrice(t *testing.T) {
	price := dto.MustMoney("1.005")
	item := mapper.ItemRequestToModel(&dto.ItemRequest{Sku: "S1", Name: "Nail", Price: &price, CategoryID: ptr.New(int64(1))})

	assert.Equal(t, "1.01", item.Price.StringFixed(2))
}

func TestNilPropagation(t *testing.T) {
	assert.Nil(t, mapper.CategoryToResponse(nil))
	assert.Nil(t, mapper.CategoryToResponseWithItems(nil, nil))
	assert.Nil(t, mapper.CategoryToSummary(nil))
	assert.Nil(t, mapper.CategoryRequestToModel(nil))
	assert.Nil(t, mapper.ItemToResponse(nil))
	assert.Nil(t, mapper.ItemToSummary(nil))
	assert.Nil(t, mapper.ItemRequestToModel(nil))
}

func TestListsAreNeverNil(t *testing.T) {
	assert.NotNil(t, mapper.CategoriesToResponses(nil))
	assert.NotNil(t, mapper.ItemsToResponses(nil))
	assert.NotNil(t, mapper.ItemsToSummaries(nil))
}

func TestCategoryToResponseWithItems(t *testing.T) {
	now := time.Now()
	category := model.Category{ID: 1, Code: "C1", Name: "Tools", CreatedAt: now, UpdatedAt: now}
	items := []model.Item{
		{ID: 10, Sku: "S1", Name: "Hammer", Price: decimal.RequireFromString("9.99"), Stock: 5, CategoryID: 1, Category: category.Summary()},
	}

	res := mapper.CategoryToResponseWithItems(&category, items)
	require.NotNil(t, res)

	assert.Equal(t, int64(1), res.ID)
	assert.Equal(t, []dto.ItemSummary{
		{ID: 10, Sku: "S1", Name: "Hammer", Price: dto.MustMoney("9.99"), Stock: 5},
	}, res.Items)
}

func TestItemToResponseEmbedsSummary(t *testing.T) {
	item := model.Item{
		ID:         10,
		Sku:        "S1",
		CategoryID: 1,
		Category:   model.CategorySummary{ID: 1, Code: "C1", Name: "Tools"},
	}

	res := mapper.ItemToResponse(&item)

	assert.Equal(t, &dto.CategorySummary{ID: 1, Code: "C1", Name: "Tools"}, res.Category)
}

func TestApplyItemRequestKeepsIdentity(t *testing.T) {
	created := time.Now().Add(-time.Hour)
	existing := model.Item{ID: 3, CategoryID: 9, CreatedAt: created, Price: decimal.NewFromInt(1)}

	updated := mapper.ApplyItemRequest(existing, dto.ItemRequest{Sku: "S2", Name: "Saw", Stock: 2, CategoryID: ptr.New(int64(4))})

	assert.Equal(t, int64(3), updated.ID)
	assert.Equal(t, int64(9), updated.CategoryID)
	assert.Equal(t, created, updated.CreatedAt)
	assert.True(t, updated.Price.Equal(decimal.NewFromInt(1)))
	assert.Equal(t, "S2", updated.Sku)
}
