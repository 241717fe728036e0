package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/catalog-service/internal/apperr"
	"github.com/tuanvumaihuynh/catalog-service/internal/dto"
	"github.com/tuanvumaihuynh/catalog-service/internal/event"
	"github.com/tuanvumaihuynh/catalog-service/internal/mapper"
	"github.com/tuanvumaihuynh/catalog-service/internal/model"
	"github.com/tuanvumaihuynh/catalog-service/internal/repository"
	"github.com/tuanvumaihuynh/catalog-service/internal/storage/db"
	"github.com/tuanvumaihuynh/catalog-service/pkg/validator"
)

// maxPrice is the first value that no longer fits NUMERIC(10,2).
var maxPrice = decimal.New(1, 8)

type ItemService interface {
	// ListItems returns one page of items, restricted to a category when categoryID is set.
	ListItems(ctx context.Context, page, size int, categoryID *int64) ([]dto.ItemResponse, error)
	GetItem(ctx context.Context, id int64) (*dto.ItemResponse, error)
	SearchItemsByName(ctx context.Context, keyword string) ([]dto.ItemResponse, error)
	ListItemsByCategory(ctx context.Context, categoryID int64) ([]dto.ItemResponse, error)
	CreateItem(ctx context.Context, req dto.ItemRequest) (*dto.ItemResponse, error)
	UpdateItem(ctx context.Context, id int64, req dto.ItemRequest) (*dto.ItemResponse, error)
	// UpdateStock adds delta, which may be negative, to the item stock.
	UpdateStock(ctx context.Context, id int64, delta int) (*dto.ItemResponse, error)
	DeleteItem(ctx context.Context, id int64) error
	CountItems(ctx context.Context) (int64, error)
}

type itemService struct {
	db            db.DB
	validator     validator.Validator
	itemRepo      repository.ItemRepository
	categoryRepo  repository.CategoryRepository
	outboxMsgRepo repository.OutboxMsgRepository
}

func NewItemService(
	db db.DB,
	validator validator.Validator,
	itemRepo repository.ItemRepository,
	categoryRepo repository.CategoryRepository,
	outboxMsgRepo repository.OutboxMsgRepository,
) ItemService {
	return &itemService{
		db:            db,
		validator:     validator,
		itemRepo:      itemRepo,
		categoryRepo:  categoryRepo,
		outboxMsgRepo: outboxMsgRepo,
	}
}

func (s *itemService) ListItems(ctx context.Context, page, size int, categoryID *int64) ([]dto.ItemResponse, error) {
	if err := validatePage(page, size); err != nil {
		return nil, err
	}

	if categoryID != nil {
		if err := s.requireCategory(ctx, s.categoryRepo, *categoryID); err != nil {
			return nil, err
		}
	}

	items, err := s.itemRepo.ListItems(ctx, repository.ListItemsParams{
		Offset:     offset(page, size),
		Limit:      int64(size),
		CategoryID: categoryID,
	})
	if err != nil {
		return nil, storageErr(err, "error fetching items")
	}

	return mapper.ItemsToResponses(items), nil
}

func (s *itemService) GetItem(ctx context.Context, id int64) (*dto.ItemResponse, error) {
	item, err := s.itemRepo.GetItem(ctx, id)
	if err != nil {
		return nil, itemReadErr(err, id, "error fetching item")
	}

	return mapper.ItemToResponse(&item), nil
}

func (s *itemService) SearchItemsByName(ctx context.Context, keyword string) ([]dto.ItemResponse, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, apperr.Validation("Search keyword is required")
	}

	items, err := s.itemRepo.SearchItemsByName(ctx, keyword)
	if err != nil {
		return nil, storageErr(err, "error searching items")
	}

	return mapper.ItemsToResponses(items), nil
}

func (s *itemService) ListItemsByCategory(ctx context.Context, categoryID int64) ([]dto.ItemResponse, error) {
	if err := s.requireCategory(ctx, s.categoryRepo, categoryID); err != nil {
		return nil, err
	}

	items, err := s.itemRepo.ListItemsByCategory(ctx, categoryID)
	if err != nil {
		return nil, storageErr(err, "error fetching items by category")
	}

	return mapper.ItemsToResponses(items), nil
}

func (s *itemService) CreateItem(ctx context.Context, req dto.ItemRequest) (*dto.ItemResponse, error) {
	if err := s.validateItem(req); err != nil {
		return nil, err
	}

	now := time.Now()
	item := *mapper.ItemRequestToModel(&req)
	item.CreatedAt = now
	item.UpdatedAt = now

	if err := s.db.WithTx(ctx, func(db db.DB) error {
		itemRepo := s.itemRepo.WithDB(db)

		exists, err := itemRepo.ItemSkuExists(ctx, item.Sku, nil)
		if err != nil {
			return storageErr(err, "error creating item")
		}
		if exists {
			return apperr.DuplicateItemSku(item.Sku)
		}

		if err := s.requireCategory(ctx, s.categoryRepo.WithDB(db), item.CategoryID); err != nil {
			return err
		}

		created, err := itemRepo.CreateItem(ctx, item)
		if err != nil {
			return itemWriteErr(err, item, "error creating item")
		}
		item = created

		if err := publish(ctx, s.outboxMsgRepo.WithDB(db), event.TopicItemCreated, item.ID, itemEvent(item)); err != nil {
			return storageErr(err, "error creating item")
		}

		return nil
	}); err != nil {
		return nil, storageErr(err, "error creating item")
	}

	return mapper.ItemToResponse(&item), nil
}

func (s *itemService) UpdateItem(ctx context.Context, id int64, req dto.ItemRequest) (*dto.ItemResponse, error) {
	if err := s.validateItem(req); err != nil {
		return nil, err
	}

	var item model.Item
	if err := s.db.WithTx(ctx, func(db db.DB) error {
		itemRepo := s.itemRepo.WithDB(db)

		existing, err := itemRepo.GetItem(ctx, id)
		if err != nil {
			return itemReadErr(err, id, "error updating item")
		}

		if req.Sku != existing.Sku {
			exists, err := itemRepo.ItemSkuExists(ctx, req.Sku, &id)
			if err != nil {
				return storageErr(err, "error updating item")
			}
			if exists {
				return apperr.DuplicateItemSku(req.Sku)
			}
		}

		updated := mapper.ApplyItemRequest(existing, req)
		if categoryID := *req.CategoryID; categoryID != existing.CategoryID {
			if err := s.requireCategory(ctx, s.categoryRepo.WithDB(db), categoryID); err != nil {
				return err
			}
			updated.CategoryID = categoryID
		}
		updated.UpdatedAt = time.Now()

		item, err = itemRepo.UpdateItem(ctx, updated)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperr.ItemNotFound(id)
			}
			return itemWriteErr(err, updated, "error updating item")
		}

		if err := publish(ctx, s.outboxMsgRepo.WithDB(db), event.TopicItemUpdated, item.ID, itemEvent(item)); err != nil {
			return storageErr(err, "error updating item")
		}

		return nil
	}); err != nil {
		return nil, storageErr(err, "error updating item")
	}

	return mapper.ItemToResponse(&item), nil
}

func (s *itemService) UpdateStock(ctx context.Context, id int64, delta int) (*dto.ItemResponse, error) {
	var item model.Item
	if err := s.db.WithTx(ctx, func(db db.DB) error {
		itemRepo := s.itemRepo.WithDB(db)

		current, err := itemRepo.LockItem(ctx, id)
		if err != nil {
			return itemReadErr(err, id, "error updating stock")
		}

		if delta > model.MaxStock-current.Stock {
			return apperr.StockLimitExceeded(current.Stock)
		}
		stock := current.Stock + delta
		if stock < 0 {
			return apperr.InsufficientStock(current.Stock)
		}

		item, err = itemRepo.UpdateItemStock(ctx, repository.UpdateItemStockParams{
			ID:        id,
			Stock:     stock,
			UpdatedAt: time.Now(),
		})
		if err != nil {
			if repository.IsConstraint(err, repository.ConstraintItemStock) {
				return apperr.InsufficientStock(current.Stock)
			}
			return itemReadErr(err, id, "error updating stock")
		}

		if err := publish(ctx, s.outboxMsgRepo.WithDB(db), event.TopicItemStockUpdated, id, event.ItemStockUpdatedEvent{
			ItemID:        id,
			Sku:           item.Sku,
			PreviousStock: current.Stock,
			Stock:         item.Stock,
			Delta:         delta,
		}); err != nil {
			return storageErr(err, "error updating stock")
		}

		return nil
	}); err != nil {
		return nil, storageErr(err, "error updating stock")
	}

	return mapper.ItemToResponse(&item), nil
}

func (s *itemService) DeleteItem(ctx context.Context, id int64) error {
	if err := s.db.WithTx(ctx, func(db db.DB) error {
		itemRepo := s.itemRepo.WithDB(db)

		item, err := itemRepo.GetItem(ctx, id)
		if err != nil {
			return itemReadErr(err, id, "error deleting item")
		}

		deleted, err := itemRepo.DeleteItem(ctx, id)
		if err != nil {
			return storageErr(err, "error deleting item")
		}
		if !deleted {
			return apperr.ItemNotFound(id)
		}

		if err := publish(ctx, s.outboxMsgRepo.WithDB(db), event.TopicItemDeleted, id, event.ItemDeletedEvent{
			ItemID:     id,
			Sku:        item.Sku,
			CategoryID: item.CategoryID,
		}); err != nil {
			return storageErr(err, "error deleting item")
		}

		return nil
	}); err != nil {
		return storageErr(err, "error deleting item")
	}

	return nil
}

func (s *itemService) CountItems(ctx context.Context) (int64, error) {
	count, err := s.itemRepo.CountItems(ctx)
	if err != nil {
		return 0, storageErr(err, "error counting items")
	}

	return count, nil
}

func (s *itemService) validateItem(req dto.ItemRequest) error {
	if err := validate(s.validator, req); err != nil {
		return err
	}

	price := req.Price.Round(mapper.PriceScale)
	if !price.IsPositive() {
		return apperr.Validation("Item price must be greater than 0")
	}
	if price.GreaterThanOrEqual(maxPrice) {
		return apperr.Validation("Item price must be less than 100000000")
	}

	return nil
}

func (s *itemService) requireCategory(ctx context.Context, categoryRepo repository.CategoryRepository, id int64) error {
	exists, err := categoryRepo.CategoryExists(ctx, id)
	if err != nil {
		return storageErr(err, "error fetching category")
	}
	if !exists {
		return apperr.CategoryNotFound(id)
	}

	return nil
}

func itemReadErr(err error, id int64, msg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.ItemNotFound(id)
	}
	return storageErr(err, msg)
}

// itemWriteErr maps a rejected item write onto catalog errors.
func itemWriteErr(err error, item model.Item, msg string) error {
	switch {
	case repository.IsConstraint(err, repository.ConstraintItemSku):
		return apperr.DuplicateItemSku(item.Sku)
	case repository.IsConstraint(err, repository.ConstraintItemCategory):
		return apperr.CategoryNotFound(item.CategoryID)
	case repository.IsConstraint(err, repository.ConstraintItemPrice):
		return apperr.Validation("Item price must be greater than 0")
	case repository.IsConstraint(err, repository.ConstraintItemStock):
		return apperr.Validation("stock must be greater than or equal to 0")
	}
	return storageErr(err, msg)
}

func itemEvent(i model.Item) event.ItemEvent {
	return event.ItemEvent{
		ItemID:     i.ID,
		Sku:        i.Sku,
		Name:       i.Name,
		Price:      i.Price,
		Stock:      i.Stock,
		CategoryID: i.CategoryID,
	}
}
