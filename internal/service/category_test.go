package service_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/catalog-service/internal/apperr"
	"github.com/tuanvumaihuynh/catalog-service/internal/dto"
	"github.com/tuanvumaihuynh/catalog-service/internal/repository"
	"github.com/tuanvumaihuynh/catalog-service/internal/service"
	"github.com/tuanvumaihuynh/catalog-service/internal/storage/db"
	"github.com/tuanvumaihuynh/catalog-service/pkg/validator"
)

func TestCreateCategory(t *testing.T) {
	t.Run("Should round trip through get", func(t *testing.T) {
		f := newFixture(t)

		created, err := f.categories.CreateCategory(t.Context(), dto.CategoryRequest{
			Code:        "C1",
			Name:        "Tools",
			Description: "Hand tools",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), created.ID)
		assert.False(t, created.CreatedAt.IsZero())
		assert.Equal(t, created.CreatedAt, created.UpdatedAt)

		got, err := f.categories.GetCategory(t.Context(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, created, got)
	})

	t.Run("Should reject invalid fields", func(t *testing.T) {
		f := newFixture(t)

		tests := []struct {
			name string
			req  dto.CategoryRequest
			msg  string
		}{
			{name: "blank code", req: dto.CategoryRequest{Code: "  ", Name: "Tools"}, msg: "code field is required"},
			{name: "short code", req: dto.CategoryRequest{Code: "C", Name: "Tools"}, msg: "code must be at least 2 characters long"},
			{name: "long name", req: dto.CategoryRequest{Code: "C1", Name: strings.Repeat("n", 101)}, msg: "name must be at most 100 characters long"},
			{name: "long description", req: dto.CategoryRequest{Code: "C1", Name: "Tools", Description: strings.Repeat("d", 501)}, msg: "description must be at most 500 characters long"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := f.categories.CreateCategory(t.Context(), tt.req)
				assertZError(t, err, apperr.ValidationErrorCode, tt.msg)
			})
		}

		count, err := f.categories.CountCategories(t.Context())
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("Should accept exactly one of concurrent duplicates", func(t *testing.T) {
		f := newFixture(t)

		const attempts = 8
		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			successes int
			failures  []error
		)
		for range attempts {
			wg.Go(func() {
				_, err := f.categories.CreateCategory(t.Context(), dto.CategoryRequest{Code: "DUP", Name: "Duplicate"})
				mu.Lock()
				defer mu.Unlock()
				if err == nil {
					successes++
					return
				}
				failures = append(failures, err)
			})
		}
		wg.Wait()

		assert.Equal(t, 1, successes)
		require.Len(t, failures, attempts-1)
		for _, err := range failures {
			assertZError(t, err, apperr.ValidationErrorCode, "Category code 'DUP' already exists")
		}
	})
}

func TestGetCategory(t *testing.T) {
	f := newFixture(t)

	_, err := f.categories.GetCategory(t.Context(), 42)
	assertZError(t, err, apperr.CategoryNotFoundCode, "Category with id 42 not found")

	category := f.createCategory(t, "C1", "Tools")
	f.createItem(t, "S1", "9.99", 5, category.ID)
	f.createItem(t, "S2", "1.50", 0, category.ID)

	t.Run("Should include item summaries", func(t *testing.T) {
		res, err := f.categories.GetCategoryWithItems(t.Context(), category.ID)
		require.NoError(t, err)

		require.Len(t, res.Items, 2)
		assert.Equal(t, "S1", res.Items[0].Sku)
		assert.Equal(t, "1.50", res.Items[1].Price.StringFixed(2))
	})

	t.Run("Should page category items", func(t *testing.T) {
		res, err := f.categories.ListCategoryItems(t.Context(), category.ID, 1, 1)
		require.NoError(t, err)
		require.Len(t, res, 1)
		assert.Equal(t, "S2", res[0].Sku)

		_, err = f.categories.ListCategoryItems(t.Context(), 99, 0, 10)
		assertZError(t, err, apperr.CategoryNotFoundCode, "Category with id 99 not found")
	})
}

func TestUpdateCategory(t *testing.T) {
	f := newFixture(t)
	first := f.createCategory(t, "C1", "Tools")
	f.createCategory(t, "C2", "Garden")

	t.Run("Should keep its own code", func(t *testing.T) {
		res, err := f.categories.UpdateCategory(t.Context(), first.ID, dto.CategoryRequest{Code: "C1", Name: "Hand tools"})
		require.NoError(t, err)

		assert.Equal(t, "Hand tools", res.Name)
		assert.Equal(t, first.CreatedAt, res.CreatedAt)
		assert.False(t, res.UpdatedAt.Before(first.UpdatedAt))
	})

	t.Run("Should reject another category's code", func(t *testing.T) {
		_, err := f.categories.UpdateCategory(t.Context(), first.ID, dto.CategoryRequest{Code: "C2", Name: "Tools"})
		assertZError(t, err, apperr.ValidationErrorCode, "Category code 'C2' already exists")
	})

	t.Run("Should report missing category", func(t *testing.T) {
		_, err := f.categories.UpdateCategory(t.Context(), 99, dto.CategoryRequest{Code: "C9", Name: "Missing"})
		assertZError(t, err, apperr.CategoryNotFoundCode, "Category with id 99 not found")
	})
}

func TestDeleteCategory(t *testing.T) {
	f := newFixture(t)
	category := f.createCategory(t, "C1", "Tools")
	f.createItem(t, "S1", "9.99", 5, category.ID)
	item := f.createItem(t, "S2", "4.00", 1, category.ID)

	err := f.categories.DeleteCategory(t.Context(), category.ID)
	assertZError(t, err, apperr.ValidationErrorCode,
		"Cannot delete category with 2 associated item(s). Please delete or reassign the items first.")

	require.NoError(t, f.items.DeleteItem(t.Context(), item.ID))
	err = f.categories.DeleteCategory(t.Context(), category.ID)
	assertZError(t, err, apperr.ValidationErrorCode,
		"Cannot delete category with 1 associated item(s). Please delete or reassign the items first.")

	_, err = f.categories.GetCategory(t.Context(), category.ID)
	require.NoError(t, err, "rejected delete must leave the category in place")

	err = f.categories.DeleteCategory(t.Context(), 99)
	assertZError(t, err, apperr.CategoryNotFoundCode, "Category with id 99 not found")
}

// staleCountItemRepo reports no items on the first count, as if an item was
// inserted right after it, and fails every later count.
type staleCountItemRepo struct {
	repository.ItemRepository
	calls int
}

func (r *staleCountItemRepo) WithDB(db.DB) repository.ItemRepository { return r }

func (r *staleCountItemRepo) CountItemsByCategory(context.Context, int64) (int64, error) {
	r.calls++
	if r.calls == 1 {
		return 0, nil
	}
	return 0, errors.New("connection reset")
}

func TestDeleteCategoryInsertRace(t *testing.T) {
	v, err := validator.NewDefaultValidator()
	require.NoError(t, err)

	f := newFixture(t)
	category := f.createCategory(t, "C1", "Tools")
	f.createItem(t, "S1", "9.99", 5, category.ID)

	itemRepo := &staleCountItemRepo{ItemRepository: f.store.Items()}
	categories := service.NewCategoryService(f.store.DB(), v, f.store.Categories(), itemRepo, f.store.Outbox())

	err = categories.DeleteCategory(t.Context(), category.ID)
	assertZError(t, err, apperr.ValidationErrorCode,
		"Cannot delete category with 1 associated item(s). Please delete or reassign the items first.")
	assert.Equal(t, 2, itemRepo.calls)

	_, err = f.categories.GetCategory(t.Context(), category.ID)
	require.NoError(t, err)
}
