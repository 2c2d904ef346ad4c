package dashboard

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quipu-erp/quipu/internal/platform/httpx"
	"github.com/quipu-erp/quipu/internal/tenant"
)

// Handler serves the dashboard read model.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.stats)
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	companyID := tenant.CompanyFromContext(r.Context())
	stats, err := h.service.ForCompany(r.Context(), companyID)
	if err != nil {
		h.logger.Error("dashboard stats", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Error al obtener estadísticas")
		return
	}
	httpx.OK(w, http.StatusOK, stats)
}
