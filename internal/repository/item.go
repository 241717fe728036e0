package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tuanvumaihuynh/catalog-service/internal/model"
	"github.com/tuanvumaihuynh/catalog-service/internal/storage/db"
)

type ListItemsParams struct {
	Offset int64
	Limit  int64
	// CategoryID restricts the page to one category when set.
	CategoryID *int64
}

type UpdateItemStockParams struct {
	ID        int64
	Stock     int
	UpdatedAt time.Time
}

type ItemRepository interface {
	WithDB(db db.DB) ItemRepository
	ListItems(ctx context.Context, params ListItemsParams) ([]model.Item, error)
	GetItem(ctx context.Context, id int64) (model.Item, error)
	// LockItem reads the item and holds a row lock until the surrounding
	// transaction ends.
	LockItem(ctx context.Context, id int64) (model.Item, error)
	GetItemBySku(ctx context.Context, sku string) (model.Item, error)
	SearchItemsByName(ctx context.Context, keyword string) ([]model.Item, error)
	ListItemsByCategory(ctx context.Context, categoryID int64) ([]model.Item, error)
	CreateItem(ctx context.Context, item model.Item) (model.Item, error)
	UpdateItem(ctx context.Context, item model.Item) (model.Item, error)
	UpdateItemStock(ctx context.Context, params UpdateItemStockParams) (model.Item, error)
	DeleteItem(ctx context.Context, id int64) (bool, error)
	CountItems(ctx context.Context) (int64, error)
	CountItemsByCategory(ctx context.Context, categoryID int64) (int64, error)
	ItemExists(ctx context.Context, id int64) (bool, error)
	ItemSkuExists(ctx context.Context, sku string, excludeID *int64) (bool, error)
}

type itemRepository struct {
	db db.DB
}

func NewItemRepository(db db.DB) ItemRepository {
	return &itemRepository{db: db}
}

func (r itemRepository) WithDB(db db.DB) ItemRepository {
	return &itemRepository{db: db}
}

const itemColumns = `
	i.id, i.sku, i.name, i.description, i.price, i.stock, i.category_id, i.created_at, i.updated_at,
	c.id, c.code, c.name`

const itemFrom = `
	FROM item AS i
	JOIN category AS c ON c.id = i.category_id`

func scanItem(row pgx.Row) (model.Item, error) {
	var i model.Item
	err := row.Scan(
		&i.ID, &i.Sku, &i.Name, &i.Description, &i.Price, &i.Stock, &i.CategoryID, &i.CreatedAt, &i.UpdatedAt,
		&i.Category.ID, &i.Category.Code, &i.Category.Name,
	)
	return i, err
}

func (r itemRepository) queryItems(ctx context.Context, sql string, args pgx.NamedArgs) ([]model.Item, error) {
	rows, err := r.db.Query(ctx, sql, args)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Item, error) {
		return scanItem(row)
	})
	if err != nil {
		return nil, fmt.Errorf("collect items: %w", err)
	}

	return items, nil
}

func (r itemRepository) ListItems(ctx context.Context, params ListItemsParams) ([]model.Item, error) {
	items, err := r.queryItems(ctx, `
		SELECT `+itemColumns+itemFrom+`
		WHERE @category_id::bigint IS NULL OR i.category_id = @category_id::bigint
		ORDER BY i.id
		OFFSET @offset
		LIMIT @limit
	`, pgx.NamedArgs{
		"category_id": params.CategoryID,
		"offset":      params.Offset,
		"limit":       params.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	return items, nil
}

func (r itemRepository) GetItem(ctx context.Context, id int64) (model.Item, error) {
	item, err := scanItem(r.db.QueryRow(ctx, `
		SELECT `+itemColumns+itemFrom+`
		WHERE i.id = @id
	`, pgx.NamedArgs{"id": id}))
	if err != nil {
		return model.Item{}, fmt.Errorf("get item: %w", translateError(err))
	}

	return item, nil
}

func (r itemRepository) LockItem(ctx context.Context, id int64) (model.Item, error) {
	item, err := scanItem(r.db.QueryRow(ctx, `
		SELECT `+itemColumns+itemFrom+`
		WHERE i.id = @id
		FOR UPDATE OF i
	`, pgx.NamedArgs{"id": id}))
	if err != nil {
		return model.Item{}, fmt.Errorf("lock item: %w", translateError(err))
	}

	return item, nil
}

func (r itemRepository) GetItemBySku(ctx context.Context, sku string) (model.Item, error) {
	item, err := scanItem(r.db.QueryRow(ctx, `
		SELECT `+itemColumns+itemFrom+`
		WHERE i.sku = @sku
	`, pgx.NamedArgs{"sku": sku}))
	if err != nil {
		return model.Item{}, fmt.Errorf("get item by sku: %w", translateError(err))
	}

	return item, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r itemRepository) SearchItemsByName(ctx context.Context, keyword string) ([]model.Item, error) {
	items, err := r.queryItems(ctx, `
		SELECT `+itemColumns+itemFrom+`
		WHERE i.name ILIKE @pattern ESCAPE '\'
		ORDER BY i.id
	`, pgx.NamedArgs{"pattern": "%" + likeEscaper.Replace(keyword) + "%"})
	if err != nil {
		return nil, fmt.Errorf("search items by name: %w", err)
	}

	return items, nil
}

func (r itemRepository) ListItemsByCategory(ctx context.Context, categoryID int64) ([]model.Item, error) {
	items, err := r.queryItems(ctx, `
		SELECT `+itemColumns+itemFrom+`
		WHERE i.category_id = @category_id
		ORDER BY i.id
	`, pgx.NamedArgs{"category_id": categoryID})
	if err != nil {
		return nil, fmt.Errorf("list items by category: %w", err)
	}

	return items, nil
}

func (r itemRepository) CreateItem(ctx context.Context, item model.Item) (model.Item, error) {
	created, err := scanItem(r.db.QueryRow(ctx, `
		WITH i AS (
			INSERT INTO item (sku, name, description, price, stock, category_id, created_at, updated_at)
			VALUES (@sku, @name, @description, @price, @stock, @category_id, @created_at, @updated_at)
			RETURNING *
		)
		SELECT `+itemColumns+`
		FROM i
		JOIN category AS c ON c.id = i.category_id
	`, pgx.NamedArgs{
		"sku":         item.Sku,
		"name":        item.Name,
		"description": item.Description,
		"price":       item.Price,
		"stock":       item.Stock,
		"category_id": item.CategoryID,
		"created_at":  item.CreatedAt,
		"updated_at":  item.UpdatedAt,
	}))
	if err != nil {
		return model.Item{}, fmt.Errorf("insert item: %w", translateError(err))
	}

	return created, nil
}

func (r itemRepository) UpdateItem(ctx context.Context, item model.Item) (model.Item, error) {
	updated, err := scanItem(r.db.QueryRow(ctx, `
		WITH i AS (
			UPDATE item
			SET
				sku         = @sku,
				name        = @name,
				description = @description,
				price       = @price,
				stock       = @stock,
				category_id = @category_id,
				updated_at  = @updated_at
			WHERE id = @id
			RETURNING *
		)
		SELECT `+itemColumns+`
		FROM i
		JOIN category AS c ON c.id = i.category_id
	`, pgx.NamedArgs{
		"id":          item.ID,
		"sku":         item.Sku,
		"name":        item.Name,
		"description": item.Description,
		"price":       item.Price,
		"stock":       item.Stock,
		"category_id": item.CategoryID,
		"updated_at":  item.UpdatedAt,
	}))
	if err != nil {
		return model.Item{}, fmt.Errorf("update item: %w", translateError(err))
	}

	return updated, nil
}

func (r itemRepository) UpdateItemStock(ctx context.Context, params UpdateItemStockParams) (model.Item, error) {
	updated, err := scanItem(r.db.QueryRow(ctx, `
		WITH i AS (
			UPDATE item
			SET
				stock      = @stock,
				updated_at = @updated_at
			WHERE id = @id
			RETURNING *
		)
		SELECT `+itemColumns+`
		FROM i
		JOIN category AS c ON c.id = i.category_id
	`, pgx.NamedArgs{
		"id":         params.ID,
		"stock":      params.Stock,
		"updated_at": params.UpdatedAt,
	}))
	if err != nil {
		return model.Item{}, fmt.Errorf("update item stock: %w", translateError(err))
	}

	return updated, nil
}

func (r itemRepository) DeleteItem(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM item WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return false, fmt.Errorf("delete item: %w", translateError(err))
	}

	return tag.RowsAffected() > 0, nil
}

func (r itemRepository) CountItems(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM item`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}

	return count, nil
}

func (r itemRepository) CountItemsByCategory(ctx context.Context, categoryID int64) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM item WHERE category_id = @category_id`,
		pgx.NamedArgs{"category_id": categoryID},
	).Scan(&count); err != nil {
		return 0, fmt.Errorf("count items by category: %w", err)
	}

	return count, nil
}

func (r itemRepository) ItemExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM item WHERE id = @id)`,
		pgx.NamedArgs{"id": id},
	).Scan(&exists); err != nil {
		return false, fmt.Errorf("check item exists: %w", err)
	}

	return exists, nil
}

func (r itemRepository) ItemSkuExists(ctx context.Context, sku string, excludeID *int64) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM item
			WHERE sku = @sku
			  AND (@exclude_id::bigint IS NULL OR id <> @exclude_id::bigint)
		)
	`, pgx.NamedArgs{
		"sku":        sku,
		"exclude_id": excludeID,
	}).Scan(&exists); err != nil {
		return false, fmt.Errorf("check item sku exists: %w", err)
	}

	return exists, nil
}
