package model

import "time"

// Category groups items under a unique short code.
type Category struct {
	ID          int64
	Code        string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CategorySummary is the reduced view of a Category embedded in item reads.
type CategorySummary struct {
	ID   int64
	Code string
	Name string
}

func (c Category) Summary() CategorySummary {
	return CategorySummary{
		ID:   c.ID,
		Code: c.Code,
		Name: c.Name,
	}
}
