package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tuanvumaihuynh/catalog-service/internal/dto"
	"github.com/tuanvumaihuynh/catalog-service/internal/service"
)

type itemHandler struct {
	itemSvc         service.ItemService
	defaultPageSize int
}

func newItemHandler(itemSvc service.ItemService, defaultPageSize int) *itemHandler {
	return &itemHandler{
		itemSvc:         itemSvc,
		defaultPageSize: defaultPageSize,
	}
}

func (h *itemHandler) routes(r chi.Router, handle func(handlerFunc) http.HandlerFunc) {
	r.Route("/items", func(r chi.Router) {
		r.Get("/", handle(h.ListItems))
		r.Post("/", handle(h.CreateItem))
		r.Get("/count", handle(h.CountItems))
		r.Get("/search", handle(h.SearchItems))
		r.Get("/by-category/{categoryId}", handle(h.ListItemsByCategory))
		r.Get("/{id}", handle(h.GetItem))
		r.Put("/{id}", handle(h.UpdateItem))
		r.Patch("/{id}/stock", handle(h.UpdateStock))
		r.Delete("/{id}", handle(h.DeleteItem))
	})
}

func (h *itemHandler) ListItems(w http.ResponseWriter, r *http.Request) error {
	page, size, err := pageParams(r, h.defaultPageSize)
	if err != nil {
		return err
	}

	categoryID, err := queryOptionalInt64(r, "categoryId")
	if err != nil {
		return err
	}

	res, err := h.itemSvc.ListItems(r.Context(), page, size, categoryID)
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusOK, res)
}

func (h *itemHandler) CountItems(w http.ResponseWriter, r *http.Request) error {
	count, err := h.itemSvc.CountItems(r.Context())
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusOK, dto.CountResponse{Count: count})
}

func (h *itemHandler) SearchItems(w http.ResponseWriter, r *http.Request) error {
	keyword, err := queryString(r, "keyword")
	if err != nil {
		return err
	}

	res, err := h.itemSvc.SearchItemsByName(r.Context(), keyword)
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusOK, res)
}

func (h *itemHandler) ListItemsByCategory(w http.ResponseWriter, r *http.Request) error {
	categoryID, err := pathInt64(r, "categoryId")
	if err != nil {
		return err
	}

	res, err := h.itemSvc.ListItemsByCategory(r.Context(), categoryID)
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusOK, res)
}

func (h *itemHandler) GetItem(w http.ResponseWriter, r *http.Request) error {
	id, err := pathInt64(r, "id")
	if err != nil {
		return err
	}

	res, err := h.itemSvc.GetItem(r.Context(), id)
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusOK, res)
}

func (h *itemHandler) CreateItem(w http.ResponseWriter, r *http.Request) error {
	var req dto.ItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}

	res, err := h.itemSvc.CreateItem(r.Context(), req)
	if err != nil {
		return err
	}

	w.Header().Set("Location", fmt.Sprintf("/items/%d", res.ID))
	return writeJSON(w, http.StatusCreated, res)
}

func (h *itemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) error {
	id, err := pathInt64(r, "id")
	if err != nil {
		return err
	}

	var req dto.ItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}

	res, err := h.itemSvc.UpdateItem(r.Context(), id, req)
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusOK, res)
}

func (h *itemHandler) UpdateStock(w http.ResponseWriter, r *http.Request) error {
	id, err := pathInt64(r, "id")
	if err != nil {
		return err
	}

	quantity, err := queryRequiredInt(r, "quantity")
	if err != nil {
		return err
	}

	res, err := h.itemSvc.UpdateStock(r.Context(), id, quantity)
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusOK, res)
}

func (h *itemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) error {
	id, err := pathInt64(r, "id")
	if err != nil {
		return err
	}

	if err := h.itemSvc.DeleteItem(r.Context(), id); err != nil {
		return err
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
