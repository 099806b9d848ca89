package integrityhandler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrinsight/internal/domain/auth"
	"hrinsight/internal/domain/integrity"
	"hrinsight/internal/transport/http/api"
	"hrinsight/internal/transport/http/middleware"
)

type Service interface {
	CheckCoverage(ctx context.Context) (integrity.CoverageReport, error)
}

type Handler struct {
	Service Service
	Perms   middleware.PermissionStore
}

func NewHandler(service Service, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequirePermission(auth.PermIntegrityRead, h.Perms)).Get("/integrity/coverage", h.handleCoverage)
}

func (h *Handler) handleCoverage(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	report, err := h.Service.CheckCoverage(r.Context())
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.Success(w, report, requestID)
}
