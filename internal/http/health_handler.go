package http

import (
	"net/http"

	"github.com/tuanvumaihuynh/catalog-service/internal/apperr"
	"github.com/tuanvumaihuynh/catalog-service/internal/storage/db"
	"github.com/tuanvumaihuynh/catalog-service/pkg/zerror"
)

const HealthPath = "/healthz"

var unhealthyErr = zerror.NewServiceUnavailable(apperr.ServiceUnavailableCode, "Database is unavailable")

type healthResponse struct {
	Status string `json:"status"`
}

type healthHandler struct {
	checker db.HealthChecker
}

func (h *healthHandler) Health(w http.ResponseWriter, r *http.Request) error {
	healthy, err := h.checker.IsHealthy(r.Context())
	if err != nil || !healthy {
		return unhealthyErr.WrapParent(err)
	}

	return writeJSON(w, http.StatusOK, healthResponse{Status: "UP"})
}
