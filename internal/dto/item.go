package dto

import "time"

type ItemRequest struct {
	Sku         string `json:"sku" validate:"notblank,min=2,max=50"`
	Name        string `json:"name" validate:"notblank,min=2,max=100"`
	Description string `json:"description,omitempty" validate:"max=500"`
	Price       *Money `json:"price" validate:"required"`
	Stock       int    `json:"stock" validate:"gte=0,lte=2147483647"`
	CategoryID  *int64 `json:"categoryId" validate:"required"`
}

type ItemResponse struct {
	ID          int64            `json:"id"`
	Sku         string           `json:"sku"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Price       Money            `json:"price"`
	Stock       int              `json:"stock"`
	CategoryID  int64            `json:"categoryId"`
	Category    *CategorySummary `json:"category,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

type ItemSummary struct {
	ID    int64  `json:"id"`
	Sku   string `json:"sku"`
	Name  string `json:"name"`
	Price Money  `json:"price"`
	Stock int    `json:"stock"`
}
