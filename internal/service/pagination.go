package service

import (
	"math"

	"github.com/tuanvumaihuynh/catalog-service/internal/apperr"
)

// MaxPageSize bounds every paginated listing.
const MaxPageSize = 100

func validatePage(page, size int) error {
	switch {
	case page < 0:
		return apperr.Validation("Page number cannot be negative")
	case size <= 0:
		return apperr.Validation("Page size must be greater than 0")
	case size > MaxPageSize:
		return apperr.Validation("Page size cannot exceed 100")
	case int64(page) > math.MaxInt64/int64(size):
		return apperr.Validation("Page number is too large")
	}
	return nil
}

func offset(page, size int) int64 {
	return int64(page) * int64(size)
}
