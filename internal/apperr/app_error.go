package apperr

import (
	"math"

	"github.com/tuanvumaihuynh/catalog-service/pkg/zerror"
)

const (
	ValidationErrorCode    = "VALIDATION_FAILED"
	CategoryNotFoundCode   = "CATEGORY_NOT_FOUND"
	ItemNotFoundCode       = "ITEM_NOT_FOUND"
	StorageErrorCode       = "STORAGE_FAILURE"
	InternalErrorCode      = "INTERNAL_ERROR"
	ServiceUnavailableCode = "SERVICE_UNAVAILABLE"
)

const DeleteCategoryWithItemsMsgFormat = "Cannot delete category with %d associated item(s). Please delete or reassign the items first."

var (
	ValidationErr       = zerror.NewValidationFailed(ValidationErrorCode, "validation error")
	CategoryNotFoundErr = zerror.NewNotFound(CategoryNotFoundCode, "category not found")
	ItemNotFoundErr     = zerror.NewNotFound(ItemNotFoundCode, "item not found")
	StorageErr          = zerror.NewInternalServerError(StorageErrorCode, "storage error")
)

// Validation returns a validation error carrying msg.
func Validation(msg string) zerror.ZError {
	return ValidationErr.WithMsgf("%s", msg)
}

func CategoryNotFound(id int64) zerror.ZError {
	return CategoryNotFoundErr.WithMsgf("Category with id %d not found", id)
}

func ItemNotFound(id int64) zerror.ZError {
	return ItemNotFoundErr.WithMsgf("Item with id %d not found", id)
}

func DuplicateCategoryCode(code string) zerror.ZError {
	return ValidationErr.WithMsgf("Category code '%s' already exists", code)
}

func DuplicateItemSku(sku string) zerror.ZError {
	return ValidationErr.WithMsgf("Item SKU '%s' already exists", sku)
}

func InsufficientStock(current int) zerror.ZError {
	return ValidationErr.WithMsgf("Insufficient stock. Current stock: %d", current)
}

func StockLimitExceeded(current int) zerror.ZError {
	return ValidationErr.WithMsgf("Stock cannot exceed %d. Current stock: %d", math.MaxInt32, current)
}

func CategoryHasItems(count int64) zerror.ZError {
	return ValidationErr.WithMsgf(DeleteCategoryWithItemsMsgFormat, count)
}

// Storage wraps a persistence failure. msg is the client-facing summary, the
// cause is kept only for logs.
func Storage(msg string, cause error) zerror.ZError {
	return StorageErr.WithMsgf("%s", msg).WrapParent(cause)
}
