package event

import (
	"github.com/shopspring/decimal"
)

const (
	TopicCategoryCreated  = "category.created"
	TopicCategoryUpdated  = "category.updated"
	TopicCategoryDeleted  = "category.deleted"
	TopicItemCreated      = "item.created"
	TopicItemUpdated      = "item.updated"
	TopicItemStockUpdated = "item.stock_updated"
	TopicItemDeleted      = "item.deleted"
)

// CategoryEvent is published on category.created and category.updated.
type CategoryEvent struct {
	CategoryID  int64  `json:"category_id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CategoryDeletedEvent struct {
	CategoryID int64  `json:"category_id"`
	Code       string `json:"code"`
}

// ItemEvent is published on item.created and item.updated.
type ItemEvent struct {
	ItemID     int64           `json:"item_id"`
	Sku        string          `json:"sku"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Stock      int             `json:"stock"`
	CategoryID int64           `json:"category_id"`
}

type ItemStockUpdatedEvent struct {
	ItemID        int64  `json:"item_id"`
	Sku           string `json:"sku"`
	PreviousStock int    `json:"previous_stock"`
	Stock         int    `json:"stock"`
	Delta         int    `json:"delta"`
}

type ItemDeletedEvent struct {
	ItemID     int64  `json:"item_id"`
	Sku        string `json:"sku"`
	CategoryID int64  `json:"category_id"`
}
