package swagger_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	apicontract "github.com/tuanvumaihuynh/catalog-service/api-contract"
	"github.com/tuanvumaihuynh/catalog-service/internal/http/swagger"
)

func TestSwaggerDocsRoute(t *testing.T) {
	r := chi.NewRouter()
	swagger.Register(r)

	t.Run("Should serve the ui", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, swagger.URL, nil)
		resp := httptest.NewRecorder()

		r.ServeHTTP(resp, req)

		assert.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, resp.Body.String(), "<title>Catalog Service API</title>")
		assert.Contains(t, resp.Body.String(), swagger.SpecURL)
	})

	t.Run("Should serve the embedded contract", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, swagger.SpecURL, nil)
		resp := httptest.NewRecorder()

		r.ServeHTTP(resp, req)

		assert.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Header().Get("Content-Type"), "application/yaml")
		assert.Equal(t, apicontract.GetSpecBytes(), resp.Body.Bytes())
	})
}
