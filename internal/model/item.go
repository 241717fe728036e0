package model

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// MaxStock is the largest stock the INTEGER column holds.
const MaxStock = math.MaxInt32

// Item is a stocked product owned by exactly one Category.
type Item struct {
	ID          int64
	Sku         string
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	CategoryID  int64
	// Category is resolved by every read together with the item row.
	Category  CategorySummary
	CreatedAt time.Time
	UpdatedAt time.Time
}
