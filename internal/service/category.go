package service

import (
	"context"
	"errors"
	"time"

	"github.com/tuanvumaihuynh/catalog-service/internal/apperr"
	"github.com/tuanvumaihuynh/catalog-service/internal/dto"
	"github.com/tuanvumaihuynh/catalog-service/internal/event"
	"github.com/tuanvumaihuynh/catalog-service/internal/mapper"
	"github.com/tuanvumaihuynh/catalog-service/internal/model"
	"github.com/tuanvumaihuynh/catalog-service/internal/repository"
	"github.com/tuanvumaihuynh/catalog-service/internal/storage/db"
	"github.com/tuanvumaihuynh/catalog-service/pkg/validator"
)

type CategoryService interface {
	ListCategories(ctx context.Context, page, size int) ([]dto.CategoryResponse, error)
	GetCategory(ctx context.Context, id int64) (*dto.CategoryResponse, error)
	GetCategoryWithItems(ctx context.Context, id int64) (*dto.CategoryWithItemsResponse, error)
	ListCategoryItems(ctx context.Context, id int64, page, size int) ([]dto.ItemResponse, error)
	CreateCategory(ctx context.Context, req dto.CategoryRequest) (*dto.CategoryResponse, error)
	UpdateCategory(ctx context.Context, id int64, req dto.CategoryRequest) (*dto.CategoryResponse, error)
	DeleteCategory(ctx context.Context, id int64) error
	CountCategories(ctx context.Context) (int64, error)
}

type categoryService struct {
	db            db.DB
	validator     validator.Validator
	categoryRepo  repository.CategoryRepository
	itemRepo      repository.ItemRepository
	outboxMsgRepo repository.OutboxMsgRepository
}

func NewCategoryService(
	db db.DB,
	validator validator.Validator,
	categoryRepo repository.CategoryRepository,
	itemRepo repository.ItemRepository,
	outboxMsgRepo repository.OutboxMsgRepository,
) CategoryService {
	return &categoryService{
		db:            db,
		validator:     validator,
		categoryRepo:  categoryRepo,
		itemRepo:      itemRepo,
		outboxMsgRepo: outboxMsgRepo,
	}
}

func (s *categoryService) ListCategories(ctx context.Context, page, size int) ([]dto.CategoryResponse, error) {
	if err := validatePage(page, size); err != nil {
		return nil, err
	}

	categories, err := s.categoryRepo.ListCategories(ctx, repository.ListCategoriesParams{
		Offset: offset(page, size),
		Limit:  int64(size),
	})
	if err != nil {
		return nil, storageErr(err, "error fetching categories")
	}

	return mapper.CategoriesToResponses(categories), nil
}

func (s *categoryService) getCategory(ctx context.Context, categoryRepo repository.CategoryRepository, id int64) (model.Category, error) {
	category, err := categoryRepo.GetCategory(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Category{}, apperr.CategoryNotFound(id)
		}
		return model.Category{}, storageErr(err, "error fetching category")
	}

	return category, nil
}

func (s *categoryService) GetCategory(ctx context.Context, id int64) (*dto.CategoryResponse, error) {
	category, err := s.getCategory(ctx, s.categoryRepo, id)
	if err != nil {
		return nil, err
	}

	return mapper.CategoryToResponse(&category), nil
}

func (s *categoryService) GetCategoryWithItems(ctx context.Context, id int64) (*dto.CategoryWithItemsResponse, error) {
	category, err := s.getCategory(ctx, s.categoryRepo, id)
	if err != nil {
		return nil, err
	}

	items, err := s.itemRepo.ListItemsByCategory(ctx, id)
	if err != nil {
		return nil, storageErr(err, "error fetching category items")
	}

	return mapper.CategoryToResponseWithItems(&category, items), nil
}

func (s *categoryService) ListCategoryItems(ctx context.Context, id int64, page, size int) ([]dto.ItemResponse, error) {
	if err := validatePage(page, size); err != nil {
		return nil, err
	}

	if _, err := s.getCategory(ctx, s.categoryRepo, id); err != nil {
		return nil, err
	}

	items, err := s.itemRepo.ListItems(ctx, repository.ListItemsParams{
		Offset:     offset(page, size),
		Limit:      int64(size),
		CategoryID: &id,
	})
	if err != nil {
		return nil, storageErr(err, "error fetching category items")
	}

	return mapper.ItemsToResponses(items), nil
}

func (s *categoryService) CreateCategory(ctx context.Context, req dto.CategoryRequest) (*dto.CategoryResponse, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}

	now := time.Now()
	category := *mapper.CategoryRequestToModel(&req)
	category.CreatedAt = now
	category.UpdatedAt = now

	if err := s.db.WithTx(ctx, func(db db.DB) error {
		categoryRepo := s.categoryRepo.WithDB(db)

		exists, err := categoryRepo.CategoryCodeExists(ctx, category.Code, nil)
		if err != nil {
			return storageErr(err, "error creating category")
		}
		if exists {
			return apperr.DuplicateCategoryCode(category.Code)
		}

		created, err := categoryRepo.CreateCategory(ctx, category)
		if err != nil {
			return categoryWriteErr(err, category.Code, "error creating category")
		}
		category = created

		if err := publish(ctx, s.outboxMsgRepo.WithDB(db), event.TopicCategoryCreated, category.ID, categoryEvent(category)); err != nil {
			return storageErr(err, "error creating category")
		}

		return nil
	}); err != nil {
		return nil, storageErr(err, "error creating category")
	}

	return mapper.CategoryToResponse(&category), nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, id int64, req dto.CategoryRequest) (*dto.CategoryResponse, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}

	var category model.Category
	if err := s.db.WithTx(ctx, func(db db.DB) error {
		categoryRepo := s.categoryRepo.WithDB(db)

		existing, err := s.getCategory(ctx, categoryRepo, id)
		if err != nil {
			return err
		}

		if req.Code != existing.Code {
			exists, err := categoryRepo.CategoryCodeExists(ctx, req.Code, &id)
			if err != nil {
				return storageErr(err, "error updating category")
			}
			if exists {
				return apperr.DuplicateCategoryCode(req.Code)
			}
		}

		updated := mapper.ApplyCategoryRequest(existing, req)
		updated.UpdatedAt = time.Now()

		category, err = categoryRepo.UpdateCategory(ctx, updated)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperr.CategoryNotFound(id)
			}
			return categoryWriteErr(err, req.Code, "error updating category")
		}

		if err := publish(ctx, s.outboxMsgRepo.WithDB(db), event.TopicCategoryUpdated, category.ID, categoryEvent(category)); err != nil {
			return storageErr(err, "error updating category")
		}

		return nil
	}); err != nil {
		return nil, storageErr(err, "error updating category")
	}

	return mapper.CategoryToResponse(&category), nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.db.WithTx(ctx, func(db db.DB) error {
		categoryRepo := s.categoryRepo.WithDB(db)

		category, err := s.getCategory(ctx, categoryRepo, id)
		if err != nil {
			return err
		}

		count, err := s.itemRepo.WithDB(db).CountItemsByCategory(ctx, id)
		if err != nil {
			return storageErr(err, "error deleting category")
		}
		if count > 0 {
			return apperr.CategoryHasItems(count)
		}

		deleted, err := categoryRepo.DeleteCategory(ctx, id)
		if err != nil {
			if repository.IsConstraint(err, repository.ConstraintItemCategory) {
				// An item was added after the count. At least one exists even
				// when it cannot be counted again.
				count, countErr := s.itemRepo.CountItemsByCategory(ctx, id)
				if countErr != nil || count < 1 {
					count = 1
				}
				return apperr.CategoryHasItems(count)
			}
			return storageErr(err, "error deleting category")
		}
		if !deleted {
			return apperr.CategoryNotFound(id)
		}

		if err := publish(ctx, s.outboxMsgRepo.WithDB(db), event.TopicCategoryDeleted, id, event.CategoryDeletedEvent{
			CategoryID: id,
			Code:       category.Code,
		}); err != nil {
			return storageErr(err, "error deleting category")
		}

		return nil
	}); err != nil {
		return storageErr(err, "error deleting category")
	}

	return nil
}

func (s *categoryService) CountCategories(ctx context.Context) (int64, error) {
	count, err := s.categoryRepo.CountCategories(ctx)
	if err != nil {
		return 0, storageErr(err, "error counting categories")
	}

	return count, nil
}

// categoryWriteErr maps a rejected category write onto catalog errors.
func categoryWriteErr(err error, code, msg string) error {
	if repository.IsConstraint(err, repository.ConstraintCategoryCode) {
		return apperr.DuplicateCategoryCode(code)
	}
	return storageErr(err, msg)
}

func categoryEvent(c model.Category) event.CategoryEvent {
	return event.CategoryEvent{
		CategoryID:  c.ID,
		Code:        c.Code,
		Name:        c.Name,
		Description: c.Description,
	}
}
