package mapper

import (
	"github.com/tuanvumaihuynh/catalog-service/internal/dto"
	"github.com/tuanvumaihuynh/catalog-service/internal/model"
	"github.com/tuanvumaihuynh/catalog-service/pkg/ptr"
)

// PriceScale is the number of decimal places prices are stored with.
const PriceScale = 2

func ItemToResponse(i *model.Item) *dto.ItemResponse {
	if i == nil {
		return nil
	}

	res := &dto.ItemResponse{
		ID:          i.ID,
		Sku:         i.Sku,
		Name:        i.Name,
		Description: i.Description,
		Price:       dto.NewMoney(i.Price),
		Stock:       i.Stock,
		CategoryID:  i.CategoryID,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}

	if i.Category.ID != 0 {
		res.Category = CategoryToSummary(&i.Category)
	}

	return res
}

func ItemToSummary(i *model.Item) *dto.ItemSummary {
	if i == nil {
		return nil
	}

	return &dto.ItemSummary{
		ID:    i.ID,
		Sku:   i.Sku,
		Name:  i.Name,
		Price: dto.NewMoney(i.Price),
		Stock: i.Stock,
	}
}

func ItemsToResponses(items []model.Item) []dto.ItemResponse {
	res := make([]dto.ItemResponse, 0, len(items))
	for i := range items {
		res = append(res, *ItemToResponse(&items[i]))
	}
	return res
}

func ItemsToSummaries(items []model.Item) []dto.ItemSummary {
	res := make([]dto.ItemSummary, 0, len(items))
	for i := range items {
		res = append(res, *ItemToSummary(&items[i]))
	}
	return res
}

// ItemRequestToModel builds an unsaved item. The owning category is only referenced
// by id; resolving it is up to the caller.
func ItemRequestToModel(req *dto.ItemRequest) *model.Item {
	if req == nil {
		return nil
	}

	i := ApplyItemRequest(model.Item{}, *req)
	i.CategoryID = ptr.Value(req.CategoryID)
	return &i
}

// ApplyItemRequest returns i with the mutable fields replaced by the request values.
// CategoryID is left untouched.
func ApplyItemRequest(i model.Item, req dto.ItemRequest) model.Item {
	i.Sku = req.Sku
	i.Name = req.Name
	i.Description = req.Description
	i.Stock = req.Stock
	if req.Price != nil {
		i.Price = req.Price.Round(PriceScale)
	}
	return i
}
