package mapper

import (
	"github.com/tuanvumaihuynh/catalog-service/internal/dto"
	"github.com/tuanvumaihuynh/catalog-service/internal/model"
)

func CategoryToResponse(c *model.Category) *dto.CategoryResponse {
	if c == nil {
		return nil
	}

	return &dto.CategoryResponse{
		ID:          c.ID,
		Code:        c.Code,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// CategoryToResponseWithItems embeds the summary of every given item.
func CategoryToResponseWithItems(c *model.Category, items []model.Item) *dto.CategoryWithItemsResponse {
	if c == nil {
		return nil
	}

	return &dto.CategoryWithItemsResponse{
		CategoryResponse: *CategoryToResponse(c),
		Items:            ItemsToSummaries(items),
	}
}

func CategoryToSummary(c *model.CategorySummary) *dto.CategorySummary {
	if c == nil {
		return nil
	}

	return &dto.CategorySummary{
		ID:   c.ID,
		Code: c.Code,
		Name: c.Name,
	}
}

func CategoriesToResponses(categories []model.Category) []dto.CategoryResponse {
	res := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		res = append(res, *CategoryToResponse(&categories[i]))
	}
	return res
}

// CategoryRequestToModel builds an unsaved category; id and timestamps are assigned on persist.
func CategoryRequestToModel(req *dto.CategoryRequest) *model.Category {
	if req == nil {
		return nil
	}

	c := ApplyCategoryRequest(model.Category{}, *req)
	return &c
}

// ApplyCategoryRequest returns c with the mutable fields replaced by the request values.
func ApplyCategoryRequest(c model.Category, req dto.CategoryRequest) model.Category {
	c.Code = req.Code
	c.Name = req.Name
	c.Description = req.Description
	return c
}
