package dto

import "time"

type CategoryRequest struct {
	Code        string `json:"code" validate:"notblank,min=2,max=50"`
	Name        string `json:"name" validate:"notblank,min=2,max=100"`
	Description string `json:"description,omitempty" validate:"max=500"`
}

type CategoryResponse struct {
	ID          int64     `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CategoryWithItemsResponse struct {
	CategoryResponse
	Items []ItemSummary `json:"items"`
}

type CategorySummary struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}
