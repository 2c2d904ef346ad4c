package accounts

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/quipu-erp/quipu/internal/accounting/shared"
	"github.com/quipu-erp/quipu/internal/platform/httpx"
)

// Handler exposes the chart of accounts as JSON endpoints. The wire
// shape keeps the Spanish field names the frontend already speaks.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

type accountRequest struct {
	Codigo           string  `json:"codigo" validate:"required"`
	Nombre           string  `json:"nombre" validate:"required"`
	TipoCuenta       string  `json:"tipoCuenta" validate:"required"`
	Nivel            int     `json:"nivel" validate:"required,min=1,max=5"`
	CuentaPadreID    *string `json:"cuentaPadreId"`
	AceptaMovimiento bool    `json:"aceptaMovimiento"`
	Activa           bool    `json:"activa"`
}

type accountResponse struct {
	ID               string           `json:"id"`
	Codigo           string           `json:"codigo"`
	Nombre           string           `json:"nombre"`
	TipoCuenta       string           `json:"tipoCuenta"`
	Nivel            int              `json:"nivel"`
	CuentaPadreID    *string          `json:"cuentaPadreId,omitempty"`
	AceptaMovimiento bool             `json:"aceptaMovimiento"`
	Activa           bool             `json:"activa"`
	CuentaPadre      *accountResponse `json:"cuentaPadre,omitempty"`
}

func toResponse(a Account) accountResponse {
	resp := accountResponse{
		ID:               a.ID.String(),
		Codigo:           a.Code,
		Nombre:           a.Name,
		TipoCuenta:       string(a.Type),
		Nivel:            a.Level,
		AceptaMovimiento: a.AcceptsMovement,
		Activa:           a.Active,
	}
	if a.ParentID != nil {
		id := a.ParentID.String()
		resp.CuentaPadreID = &id
	}
	if a.Parent != nil {
		parent := toResponse(*a.Parent)
		resp.CuentaPadre = &parent
	}
	return resp
}

func toResponses(accounts []Account) []accountResponse {
	out := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toResponse(a))
	}
	return out
}

func (h *Handler) input(req accountRequest) (AccountInput, error) {
	in := AccountInput{
		Code:            req.Codigo,
		Name:            req.Nombre,
		Type:            AccountType(req.TipoCuenta),
		Level:           req.Nivel,
		AcceptsMovement: req.AceptaMovimiento,
		Active:          req.Activa,
	}
	if req.CuentaPadreID != nil && *req.CuentaPadreID != "" {
		id, err := uuid.Parse(*req.CuentaPadreID)
		if err != nil {
			return AccountInput{}, err
		}
		in.ParentID = &id
	}
	return in, nil
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.service.List(r.Context(), companyID(r))
	if err != nil {
		h.logger.Error("list accounts", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Error al obtener cuentas contables")
		return
	}
	httpx.OK(w, http.StatusOK, toResponses(accounts))
}

func (h *Handler) listMovement(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.service.ListMovement(r.Context(), companyID(r))
	if err != nil {
		h.logger.Error("list movement accounts", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Error al obtener cuentas")
		return
	}
	httpx.OK(w, http.StatusOK, toResponses(accounts))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Solicitud inválida")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Datos de cuenta inválidos")
		return
	}
	in, err := h.input(req)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Cuenta padre inválida")
		return
	}
	account, err := h.service.Create(r.Context(), companyID(r), in)
	if err != nil {
		h.respondServiceError(w, err, "Error al crear cuenta contable")
		return
	}
	httpx.OK(w, http.StatusCreated, toResponse(account))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := entityID(r)
	if err != nil {
		httpx.Fail(w, http.StatusNotFound, shared.ErrAccountNotFound.Error())
		return
	}
	var req accountRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Solicitud inválida")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Datos de cuenta inválidos")
		return
	}
	in, err := h.input(req)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Cuenta padre inválida")
		return
	}
	account, err := h.service.Update(r.Context(), companyID(r), id, in)
	if err != nil {
		h.respondServiceError(w, err, "Error al actualizar cuenta contable")
		return
	}
	httpx.OK(w, http.StatusOK, toResponse(account))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := entityID(r)
	if err != nil {
		httpx.Fail(w, http.StatusNotFound, shared.ErrAccountNotFound.Error())
		return
	}
	if err := h.service.Delete(r.Context(), companyID(r), id); err != nil {
		h.respondServiceError(w, err, "Error al eliminar cuenta contable")
		return
	}
	httpx.OK(w, http.StatusOK, nil)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, shared.ErrAccountNotFound):
		httpx.Fail(w, http.StatusNotFound, err.Error())
	case errors.Is(err, shared.ErrDuplicateCode), errors.Is(err, shared.ErrAccountInUse):
		httpx.Fail(w, http.StatusConflict, err.Error())
	case isValidationError(err):
		httpx.Fail(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("accounts service", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, fallback)
	}
}
