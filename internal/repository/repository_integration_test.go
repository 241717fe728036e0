//go:build integration

package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/tuanvumaihuynh/catalog-service/internal/config"
	"github.com/tuanvumaihuynh/catalog-service/internal/model"
	"github.com/tuanvumaihuynh/catalog-service/internal/repository"
	"github.com/tuanvumaihuynh/catalog-service/internal/storage/db"
	"github.com/tuanvumaihuynh/catalog-service/pkg/ptr"
)

func setupDB(t *testing.T) *db.Client {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("catalog"),
		tcpostgres.WithUsername("catalog"),
		tcpostgres.WithPassword("catalog"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	pool, err := db.NewPgxPool(ctx, config.Postgres{
		Host:            host,
		Port:            port.Int(),
		User:            "catalog",
		Password:        "catalog",
		DB:              "catalog",
		SSLMode:         "disable",
		MaxConns:        4,
		MinConns:        1,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: time.Minute,
	})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, db.Migrate(ctx, pool))

	return db.NewClient(pool)
}

func TestRepositories(t *testing.T) {
	client := setupDB(t)
	ctx := t.Context()

	categories := repository.NewCategoryRepository(client)
	items := repository.NewItemRepository(client)
	outbox := repository.NewOutboxMsgRepository(client)

	now := time.Now().UTC().Truncate(time.Microsecond)
	tools, err := categories.CreateCategory(ctx, model.Category{Code: "TOOLS", Name: "Tools", CreatedAt: now, UpdatedAt: now})
	require.NoError(t, err)
	require.NotZero(t, tools.ID)

	t.Run("Should reject duplicate category code", func(t *testing.T) {
		_, err := categories.CreateCategory(ctx, model.Category{Code: "TOOLS", Name: "Other", CreatedAt: now, UpdatedAt: now})
		require.ErrorIs(t, err, repository.ErrUniqueViolation)
		assert.True(t, repository.IsConstraint(err, repository.ConstraintCategoryCode))
	})

	hammer, err := items.CreateItem(ctx, model.Item{
		Sku:        "HAM-1",
		Name:       "Claw 100% hammer",
		Price:      decimal.RequireFromString("12.50"),
		Stock:      3,
		CategoryID: tools.ID,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	require.NoError(t, err)

	t.Run("Should embed category summary in item reads", func(t *testing.T) {
		got, err := items.GetItem(ctx, hammer.ID)
		require.NoError(t, err)

		assert.Equal(t, tools.Summary(), got.Category)
		assert.True(t, decimal.RequireFromString("12.50").Equal(got.Price))
	})

	t.Run("Should map check violations", func(t *testing.T) {
		_, err := items.CreateItem(ctx, model.Item{Sku: "BAD-1", Name: "Bad", Price: decimal.Zero, CategoryID: tools.ID, CreatedAt: now, UpdatedAt: now})
		require.ErrorIs(t, err, repository.ErrCheckViolation)
		assert.True(t, repository.IsConstraint(err, repository.ConstraintItemPrice))
	})

	t.Run("Should map missing category to foreign key violation", func(t *testing.T) {
		_, err := items.CreateItem(ctx, model.Item{Sku: "ORP-1", Name: "Orphan", Price: decimal.NewFromInt(1), CategoryID: tools.ID + 1000, CreatedAt: now, UpdatedAt: now})
		require.ErrorIs(t, err, repository.ErrForeignKeyViolation)
	})

	t.Run("Should treat LIKE wildcards in keyword literally", func(t *testing.T) {
		_, err := items.CreateItem(ctx, model.Item{Sku: "SAW-1", Name: "Saw 100x", Price: decimal.NewFromInt(8), CategoryID: tools.ID, CreatedAt: now, UpdatedAt: now})
		require.NoError(t, err)

		found, err := items.SearchItemsByName(ctx, "100%")
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "HAM-1", found[0].Sku)

		found, err = items.SearchItemsByName(ctx, "claw")
		require.NoError(t, err)
		assert.Len(t, found, 1)
	})

	t.Run("Should filter item list by category", func(t *testing.T) {
		list, err := items.ListItems(ctx, repository.ListItemsParams{Offset: 0, Limit: 10, CategoryID: ptr.New(tools.ID)})
		require.NoError(t, err)
		assert.Len(t, list, 2)

		list, err = items.ListItems(ctx, repository.ListItemsParams{Offset: 0, Limit: 10, CategoryID: ptr.New(tools.ID + 1000)})
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("Should restrict deleting a category that owns items", func(t *testing.T) {
		_, err := categories.DeleteCategory(ctx, tools.ID)
		require.ErrorIs(t, err, repository.ErrForeignKeyViolation)
	})

	t.Run("Should update stock under row lock", func(t *testing.T) {
		err := client.WithTx(ctx, func(tx db.DB) error {
			locked, err := items.WithDB(tx).LockItem(ctx, hammer.ID)
			if err != nil {
				return err
			}
			_, err = items.WithDB(tx).UpdateItemStock(ctx, repository.UpdateItemStockParams{
				ID:        locked.ID,
				Stock:     locked.Stock - 3,
				UpdatedAt: time.Now(),
			})
			return err
		})
		require.NoError(t, err)

		got, err := items.GetItem(ctx, hammer.ID)
		require.NoError(t, err)
		assert.Zero(t, got.Stock)
	})

	t.Run("Should look up rows by unique key", func(t *testing.T) {
		got, err := categories.GetCategoryByCode(ctx, "TOOLS")
		require.NoError(t, err)
		assert.Equal(t, tools.ID, got.ID)

		_, err = categories.GetCategoryByCode(ctx, "MISSING")
		require.ErrorIs(t, err, repository.ErrNotFound)

		item, err := items.GetItemBySku(ctx, "HAM-1")
		require.NoError(t, err)
		assert.Equal(t, hammer.ID, item.ID)
		assert.Equal(t, tools.Summary(), item.Category)

		_, err = items.GetItemBySku(ctx, "MISSING")
		require.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("Should report existence by id and unique key", func(t *testing.T) {
		exists, err := categories.CategoryExists(ctx, tools.ID)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = categories.CategoryExists(ctx, tools.ID+1000)
		require.NoError(t, err)
		assert.False(t, exists)

		exists, err = items.ItemExists(ctx, hammer.ID)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = items.ItemExists(ctx, hammer.ID+1000)
		require.NoError(t, err)
		assert.False(t, exists)

		exists, err = categories.CategoryCodeExists(ctx, "TOOLS", nil)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = categories.CategoryCodeExists(ctx, "TOOLS", ptr.New(tools.ID))
		require.NoError(t, err)
		assert.False(t, exists, "own row must be excluded")

		exists, err = items.ItemSkuExists(ctx, "HAM-1", nil)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = items.ItemSkuExists(ctx, "HAM-1", ptr.New(hammer.ID))
		require.NoError(t, err)
		assert.False(t, exists, "own row must be excluded")
	})

	t.Run("Should report missing rows", func(t *testing.T) {
		_, err := items.GetItem(ctx, hammer.ID+1000)
		require.ErrorIs(t, err, repository.ErrNotFound)

		deleted, err := items.DeleteItem(ctx, hammer.ID+1000)
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("Should skip outbox rows locked by another relay", func(t *testing.T) {
		for _, topic := range []string{"category.created", "item.created"} {
			require.NoError(t, outbox.CreateOutboxMsg(ctx, repository.CreateOutboxMsgParams{
				Topic:   topic,
				Headers: map[string]string{},
				Payload: []byte(`{}`),
			}))
		}

		held := make(chan struct{})
		release := make(chan struct{})
		done := make(chan error, 1)

		go func() {
			done <- client.WithTx(ctx, func(tx db.DB) error {
				msgs, err := outbox.WithDB(tx).ListUnprocessedOutboxMsgs(ctx, repository.ListUnprocessedOutboxMsgsParams{BatchSize: 1})
				if err != nil {
					return err
				}
				if len(msgs) != 1 {
					return errors.New("expected one locked message")
				}
				close(held)
				<-release
				return nil
			})
		}()

		<-held
		err := client.WithTx(ctx, func(tx db.DB) error {
			msgs, err := outbox.WithDB(tx).ListUnprocessedOutboxMsgs(ctx, repository.ListUnprocessedOutboxMsgsParams{BatchSize: 10})
			if err != nil {
				return err
			}
			assert.Len(t, msgs, 1)

			return outbox.WithDB(tx).BulkUpdateOutboxMsgs(ctx, repository.BulkUpdateOutboxMsgsParams{
				Items: []repository.BulkUpdateOutboxMsgsItem{{ID: msgs[0].ID}},
			})
		})
		require.NoError(t, err)

		close(release)
		require.NoError(t, <-done)

		err = client.WithTx(ctx, func(tx db.DB) error {
			msgs, err := outbox.WithDB(tx).ListUnprocessedOutboxMsgs(ctx, repository.ListUnprocessedOutboxMsgsParams{BatchSize: 10})
			if err != nil {
				return err
			}
			assert.Len(t, msgs, 1)
			return nil
		})
		require.NoError(t, err)
	})
}
