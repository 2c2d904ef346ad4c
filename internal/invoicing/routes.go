package invoicing

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/quipu-erp/quipu/internal/platform/httpx"
	"github.com/quipu-erp/quipu/internal/tenant"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Post("/{id}/emitir", h.issue)
	r.Post("/{id}/anular", h.void)
	r.Delete("/{id}", h.delete)
}

func invoiceID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Fail(w, http.StatusNotFound, ErrNotFound.Error())
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, companyID, invoiceID uuid.UUID) (Invoice, error), fallback string) {
	id, ok := invoiceID(w, r)
	if !ok {
		return
	}
	inv, err := op(r.Context(), tenant.CompanyFromContext(r.Context()), id)
	if err != nil {
		h.respondServiceError(w, err, fallback)
		return
	}
	httpx.OK(w, http.StatusOK, toResponse(inv))
}
