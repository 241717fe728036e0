package middleware_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/catalog-service/internal/http/apierr"
	"github.com/tuanvumaihuynh/catalog-service/internal/http/metric"
	"github.com/tuanvumaihuynh/catalog-service/internal/http/middleware"
	"github.com/tuanvumaihuynh/catalog-service/pkg/correlationid"
)

func TestCorrelationID(t *testing.T) {
	var seen string
	r := chi.NewRouter()
	r.Use(middleware.CorrelationID())
	r.Get("/", func(_ http.ResponseWriter, r *http.Request) {
		seen, _ = correlationid.FromContext(r.Context())
	})

	t.Run("Should reuse incoming header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(correlationid.Header, "corr-1")
		resp := httptest.NewRecorder()

		r.ServeHTTP(resp, req)

		assert.Equal(t, "corr-1", seen)
		assert.Equal(t, "corr-1", resp.Header().Get(correlationid.Header))
	})

	t.Run("Should generate when missing", func(t *testing.T) {
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, resp.Header().Get(correlationid.Header))
	})
}

func TestRecoverer(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	r := chi.NewRouter()
	r.Use(middleware.Recoverer(logger))
	r.Get("/panic", func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, resp.Code)

	var body apierr.ErrorResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "/panic", body.Path)
	assert.Equal(t, http.StatusInternalServerError, body.Status)
	assert.Contains(t, buf.String(), `"recover":"boom"`)
}

func TestMetrics(t *testing.T) {
	m := metric.New(prometheus.NewRegistry())

	r := chi.NewRouter()
	r.Use(middleware.Metrics(m))
	r.Get("/items/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, path := range []string{"/items/1", "/items/2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.InDelta(t, 2, testutil.ToFloat64(m.RequestsTotal.WithLabelValues(http.MethodGet, "/items/{id}", "200")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(m.InflightRequests), 0)
}
