package customers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/quipu-erp/quipu/internal/platform/httpx"
	"github.com/quipu-erp/quipu/internal/tenant"
)

// Handler exposes customer CRUD as JSON endpoints.
type Handler struct {
	logger    *slog.Logger
	repo      Repository
	validator *validator.Validate
}

func NewHandler(logger *slog.Logger, repo Repository) *Handler {
	return &Handler{logger: logger, repo: repo, validator: validator.New()}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type customerRequest struct {
	Identificacion string `json:"identificacion" validate:"required,min=10,max=13,numeric"`
	Nombre         string `json:"nombre" validate:"required"`
	Email          string `json:"email" validate:"omitempty,email"`
	Telefono       string `json:"telefono"`
	Direccion      string `json:"direccion"`
}

type customerResponse struct {
	ID             string `json:"id"`
	Identificacion string `json:"identificacion"`
	Nombre         string `json:"nombre"`
	Email          string `json:"email,omitempty"`
	Telefono       string `json:"telefono,omitempty"`
	Direccion      string `json:"direccion,omitempty"`
}

func toResponse(c Customer) customerResponse {
	return customerResponse{
		ID:             c.ID.String(),
		Identificacion: c.Identification,
		Nombre:         c.Name,
		Email:          c.Email,
		Telefono:       c.Phone,
		Direccion:      c.Address,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	companyID := tenant.CompanyFromContext(r.Context())
	items, err := h.repo.List(r.Context(), companyID)
	if err != nil {
		h.logger.Error("list customers", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Error al obtener clientes")
		return
	}
	out := make([]customerResponse, 0, len(items))
	for _, c := range items {
		out = append(out, toResponse(c))
	}
	httpx.OK(w, http.StatusOK, out)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Solicitud inválida")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Datos de cliente inválidos")
		return
	}
	customer := Customer{
		ID:             uuid.New(),
		CompanyID:      tenant.CompanyFromContext(r.Context()),
		Identification: req.Identificacion,
		Name:           req.Nombre,
		Email:          req.Email,
		Phone:          req.Telefono,
		Address:        req.Direccion,
	}
	if err := h.repo.Insert(r.Context(), customer); err != nil {
		h.respondRepoError(w, err, "Error al crear cliente")
		return
	}
	httpx.OK(w, http.StatusCreated, toResponse(customer))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Fail(w, http.StatusNotFound, ErrNotFound.Error())
		return
	}
	var req customerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Solicitud inválida")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Datos de cliente inválidos")
		return
	}
	customer := Customer{
		ID:             id,
		CompanyID:      tenant.CompanyFromContext(r.Context()),
		Identification: req.Identificacion,
		Name:           req.Nombre,
		Email:          req.Email,
		Phone:          req.Telefono,
		Address:        req.Direccion,
	}
	if err := h.repo.Update(r.Context(), customer); err != nil {
		h.respondRepoError(w, err, "Error al actualizar cliente")
		return
	}
	httpx.OK(w, http.StatusOK, toResponse(customer))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Fail(w, http.StatusNotFound, ErrNotFound.Error())
		return
	}
	companyID := tenant.CompanyFromContext(r.Context())
	if err := h.repo.Delete(r.Context(), companyID, id); err != nil {
		h.respondRepoError(w, err, "Error al eliminar cliente")
		return
	}
	httpx.OK(w, http.StatusOK, nil)
}

func (h *Handler) respondRepoError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Fail(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrDuplicateIdentification):
		httpx.Fail(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error("customers repository", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, fallback)
	}
}
