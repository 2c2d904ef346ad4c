package accounts

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/quipu-erp/quipu/internal/accounting/shared"
	"github.com/quipu-erp/quipu/internal/tenant"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/movimiento", h.listMovement)
	r.Post("/", h.create)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

func companyID(r *http.Request) uuid.UUID {
	return tenant.CompanyFromContext(r.Context())
}

func entityID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, shared.ErrAccountNotFound
	}
	return id, nil
}

func isValidationError(err error) bool {
	return errors.Is(err, shared.ErrInvalidInput)
}
