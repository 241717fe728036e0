package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tuanvumaihuynh/catalog-service/internal/model"
	"github.com/tuanvumaihuynh/catalog-service/internal/storage/db"
)

type ListCategoriesParams struct {
	Offset int64
	Limit  int64
}

type CategoryRepository interface {
	WithDB(db db.DB) CategoryRepository
	ListCategories(ctx context.Context, params ListCategoriesParams) ([]model.Category, error)
	GetCategory(ctx context.Context, id int64) (model.Category, error)
	GetCategoryByCode(ctx context.Context, code string) (model.Category, error)
	CreateCategory(ctx context.Context, category model.Category) (model.Category, error)
	UpdateCategory(ctx context.Context, category model.Category) (model.Category, error)
	DeleteCategory(ctx context.Context, id int64) (bool, error)
	CountCategories(ctx context.Context) (int64, error)
	CategoryExists(ctx context.Context, id int64) (bool, error)
	// CategoryCodeExists reports whether another category uses code.
	// A non-nil excludeID ignores that row.
	CategoryCodeExists(ctx context.Context, code string, excludeID *int64) (bool, error)
}

type categoryRepository struct {
	db db.DB
}

func NewCategoryRepository(db db.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r categoryRepository) WithDB(db db.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

const categoryColumns = `id, code, name, description, created_at, updated_at`

func scanCategory(row pgx.Row) (model.Category, error) {
	var c model.Category
	err := row.Scan(&c.ID, &c.Code, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r categoryRepository) ListCategories(ctx context.Context, params ListCategoriesParams) ([]model.Category, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+categoryColumns+`
		FROM category
		ORDER BY id
		OFFSET @offset
		LIMIT @limit
	`, pgx.NamedArgs{
		"offset": params.Offset,
		"limit":  params.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}

	categories, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Category, error) {
		return scanCategory(row)
	})
	if err != nil {
		return nil, fmt.Errorf("collect categories: %w", err)
	}

	return categories, nil
}

func (r categoryRepository) GetCategory(ctx context.Context, id int64) (model.Category, error) {
	category, err := scanCategory(r.db.QueryRow(ctx, `
		SELECT `+categoryColumns+`
		FROM category
		WHERE id = @id
	`, pgx.NamedArgs{"id": id}))
	if err != nil {
		return model.Category{}, fmt.Errorf("get category: %w", translateError(err))
	}

	return category, nil
}

func (r categoryRepository) GetCategoryByCode(ctx context.Context, code string) (model.Category, error) {
	category, err := scanCategory(r.db.QueryRow(ctx, `
		SELECT `+categoryColumns+`
		FROM category
		WHERE code = @code
	`, pgx.NamedArgs{"code": code}))
	if err != nil {
		return model.Category{}, fmt.Errorf("get category by code: %w", translateError(err))
	}

	return category, nil
}

func (r categoryRepository) CreateCategory(ctx context.Context, category model.Category) (model.Category, error) {
	created, err := scanCategory(r.db.QueryRow(ctx, `
		INSERT INTO category (code, name, description, created_at, updated_at)
		VALUES (@code, @name, @description, @created_at, @updated_at)
		RETURNING `+categoryColumns,
		pgx.NamedArgs{
			"code":        category.Code,
			"name":        category.Name,
			"description": category.Description,
			"created_at":  category.CreatedAt,
			"updated_at":  category.UpdatedAt,
		}))
	if err != nil {
		return model.Category{}, fmt.Errorf("insert category: %w", translateError(err))
	}

	return created, nil
}

func (r categoryRepository) UpdateCategory(ctx context.Context, category model.Category) (model.Category, error) {
	updated, err := scanCategory(r.db.QueryRow(ctx, `
		UPDATE category
		SET
			code        = @code,
			name        = @name,
			description = @description,
			updated_at  = @updated_at
		WHERE id = @id
		RETURNING `+categoryColumns,
		pgx.NamedArgs{
			"id":          category.ID,
			"code":        category.Code,
			"name":        category.Name,
			"description": category.Description,
			"updated_at":  category.UpdatedAt,
		}))
	if err != nil {
		return model.Category{}, fmt.Errorf("update category: %w", translateError(err))
	}

	return updated, nil
}

func (r categoryRepository) DeleteCategory(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM category WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return false, fmt.Errorf("delete category: %w", translateError(err))
	}

	return tag.RowsAffected() > 0, nil
}

func (r categoryRepository) CountCategories(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM category`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}

	return count, nil
}

func (r categoryRepository) CategoryExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM category WHERE id = @id)`,
		pgx.NamedArgs{"id": id},
	).Scan(&exists); err != nil {
		return false, fmt.Errorf("check category exists: %w", err)
	}

	return exists, nil
}

func (r categoryRepository) CategoryCodeExists(ctx context.Context, code string, excludeID *int64) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM category
			WHERE code = @code
			  AND (@exclude_id::bigint IS NULL OR id <> @exclude_id::bigint)
		)
	`, pgx.NamedArgs{
		"code":       code,
		"exclude_id": excludeID,
	}).Scan(&exists); err != nil {
		return false, fmt.Errorf("check category code exists: %w", err)
	}

	return exists, nil
}
