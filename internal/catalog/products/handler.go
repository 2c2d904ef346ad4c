package products

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

// Handler exposes product CRUD as JSON endpoints.
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

type productRequest struct {
	Codigo      string  `json:"codigo" validate:"required"`
	Nombre      string  `json:"nombre" validate:"required"`
	Descripcion string  `json:"descripcion"`
	Precio      float64 `json:"precio" validate:"gte=0"`
	IVA         bool    `json:"iva"`
	ICE         bool    `json:"ice"`
	Activo      bool    `json:"activo"`
}

type productResponse struct {
	ID          string  `json:"id"`
	Codigo      string  `json:"codigo"`
	Nombre      string  `json:"nombre"`
	Descripcion string  `json:"descripcion,omitempty"`
	Precio      float64 `json:"precio"`
	IVA         bool    `json:"iva"`
	ICE         bool    `json:"ice"`
	Activo      bool    `json:"activo"`
}

func toResponse(p Product) productResponse {
	return productResponse{
		ID:          p.ID.String(),
		Codigo:      p.Code,
		Nombre:      p.Name,
		Descripcion: p.Description,
		Precio:      p.Price,
		IVA:         p.IVA,
		ICE:         p.ICE,
		Activo:      p.Active,
	}
}

func (h *Handler) fromRequest(r *http.Request, id uuid.UUID, req productRequest) Product {
	return Product{
		ID:          id,
		CompanyID:   tenant.CompanyFromContext(r.Context()),
		Code:        req.Codigo,
		Name:        req.Nombre,
		Description: req.Descripcion,
		Price:       req.Precio,
		IVA:         req.IVA,
		ICE:         req.ICE,
		Active:      req.Activo,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.List(r.Context(), tenant.CompanyFromContext(r.Context()))
	if err != nil {
		h.logger.Error("list products", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Error al obtener productos")
		return
	}
	out := make([]productResponse, 0, len(items))
	for _, p := range items {
		out = append(out, toResponse(p))
	}
	httpx.OK(w, http.StatusOK, out)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Solicitud inválida")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Datos de producto inválidos")
		return
	}
	product := h.fromRequest(r, uuid.New(), req)
	if err := h.repo.Insert(r.Context(), product); err != nil {
		h.respondRepoError(w, err, "Error al crear producto")
		return
	}
	httpx.OK(w, http.StatusCreated, toResponse(product))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Fail(w, http.StatusNotFound, ErrNotFound.Error())
		return
	}
	var req productRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Solicitud inválida")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Datos de producto inválidos")
		return
	}
	product := h.fromRequest(r, id, req)
	if err := h.repo.Update(r.Context(), product); err != nil {
		h.respondRepoError(w, err, "Error al actualizar producto")
		return
	}
	httpx.OK(w, http.StatusOK, toResponse(product))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Fail(w, http.StatusNotFound, ErrNotFound.Error())
		return
	}
	if err := h.repo.Delete(r.Context(), tenant.CompanyFromContext(r.Context()), id); err != nil {
		h.respondRepoError(w, err, "Error al eliminar producto")
		return
	}
	httpx.OK(w, http.StatusOK, nil)
}

func (h *Handler) respondRepoError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Fail(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrDuplicateCode):
		httpx.Fail(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error("products repository", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, fallback)
	}
}
