package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/tuanvumaihuynh/catalog-service/internal/apperr"
)

const maxBodyBytes = 1 << 20 // 1 MB

func invalidParam(name string, err error) error {
	return apperr.Validation(fmt.Sprintf("Invalid value for parameter '%s'", name)).WrapParent(err)
}

func pathInt64(r *http.Request, name string) (int64, error) {
	var v int64
	if err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &v, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	}); err != nil {
		return 0, invalidParam(name, err)
	}
	return v, nil
}

// queryInt binds an optional integer query parameter, keeping def when absent.
func queryInt(r *http.Request, name string, def int) (int, error) {
	v := def
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &v); err != nil {
		return 0, invalidParam(name, err)
	}
	return v, nil
}

func queryRequiredInt(r *http.Request, name string) (int, error) {
	if !r.URL.Query().Has(name) {
		return 0, apperr.Validation(fmt.Sprintf("Parameter '%s' is required", name))
	}

	var v int
	if err := runtime.BindQueryParameter("form", true, true, name, r.URL.Query(), &v); err != nil {
		return 0, invalidParam(name, err)
	}
	return v, nil
}

func queryOptionalInt64(r *http.Request, name string) (*int64, error) {
	var v *int64
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &v); err != nil {
		return nil, invalidParam(name, err)
	}
	return v, nil
}

func queryString(r *http.Request, name string) (string, error) {
	var v string
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &v); err != nil {
		return "", invalidParam(name, err)
	}
	return v, nil
}

// pageParams reads page and size, defaulting to the first page of the
// configured size.
func pageParams(r *http.Request, defaultSize int) (page, size int, err error) {
	if page, err = queryInt(r, "page", 0); err != nil {
		return 0, 0, err
	}
	if size, err = queryInt(r, "size", defaultSize); err != nil {
		return 0, 0, err
	}
	return page, size, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Validation("Malformed JSON request body").WrapParent(err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	return nil
}
