package journals

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/quipu-erp/quipu/internal/accounting/shared"
	"github.com/quipu-erp/quipu/internal/tenant"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Post("/{id}/contabilizar", h.post)
	r.Post("/{id}/anular", h.void)
}

func companyID(r *http.Request) uuid.UUID {
	return tenant.CompanyFromContext(r.Context())
}

func entryID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, shared.ErrEntryNotFound
	}
	return id, nil
}
