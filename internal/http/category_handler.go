package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tuanvumaihuynh/catalog-service/internal/dto"
	"github.com/tuanvumaihuynh/catalog-service/internal/service"
)

type categoryHandler struct {
	categorySvc     service.CategoryService
	defaultPageSize int
}

func newCategoryHandler(categorySvc service.CategoryService, defaultPageSize int) *categoryHandler {
	return &categoryHandler{
		categorySvc:     categorySvc,
		defaultPageSize: defaultPageSize,
	}
}

func (h *categoryHandler) routes(r chi.Router, handle func(handlerFunc) http.HandlerFunc) {
	r.Route("/categories", func(r chi.Router) {
		r.Get("/", handle(h.ListCategories))
		r.Post("/", handle(h.CreateCategory))
		r.Get("/count", handle(h.CountCategories))
		r.Get("/{id}", handle(h.GetCategory))
		r.Put("/{id}", handle(h.UpdateCategory))
		r.Delete("/{id}", handle(h.DeleteCategory))
		r.Get("/{id}/with-items", handle(h.GetCategoryWithItems))
		r.Get("/{id}/items", handle(h.ListCategoryItems))
	})
}

func (h *categoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) error {
	page, size, err := pageParams(r, h.defaultPageSize)
	if err != nil {
		return err
	}

	res, err := h.categorySvc.ListCategories(r.Context(), page, size)
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusOK, res)
}

func (h *categoryHandler) CountCategories(w http.ResponseWriter, r *http.Request) error {
	count, err := h.categorySvc.CountCategories(r.Context())
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusOK, dto.CountResponse{Count: count})
}

func (h *categoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) error {
	id, err := pathInt64(r, "id")
	if err != nil {
		return err
	}

	res, err := h.categorySvc.GetCategory(r.Context(), id)
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusOK, res)
}

func (h *categoryHandler) GetCategoryWithItems(w http.ResponseWriter, r *http.Request) error {
	id, err := pathInt64(r, "id")
	if err != nil {
		return err
	}

	res, err := h.categorySvc.GetCategoryWithItems(r.Context(), id)
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusOK, res)
}

func (h *categoryHandler) ListCategoryItems(w http.ResponseWriter, r *http.Request) error {
	id, err := pathInt64(r, "id")
	if err != nil {
		return err
	}

	page, size, err := pageParams(r, h.defaultPageSize)
	if err != nil {
		return err
	}

	res, err := h.categorySvc.ListCategoryItems(r.Context(), id, page, size)
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusOK, res)
}

func (h *categoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) error {
	var req dto.CategoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}

	res, err := h.categorySvc.CreateCategory(r.Context(), req)
	if err != nil {
		return err
	}

	w.Header().Set("Location", fmt.Sprintf("/categories/%d", res.ID))
	return writeJSON(w, http.StatusCreated, res)
}

func (h *categoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) error {
	id, err := pathInt64(r, "id")
	if err != nil {
		return err
	}

	var req dto.CategoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}

	res, err := h.categorySvc.UpdateCategory(r.Context(), id, req)
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusOK, res)
}

func (h *categoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) error {
	id, err := pathInt64(r, "id")
	if err != nil {
		return err
	}

	if err := h.categorySvc.DeleteCategory(r.Context(), id); err != nil {
		return err
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
