package mappings

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/quipu-erp/quipu/internal/accounting/accounts"
	"github.com/quipu-erp/quipu/internal/accounting/shared"
	"github.com/quipu-erp/quipu/internal/platform/httpx"
	"github.com/quipu-erp/quipu/internal/tenant"
)

// Handler exposes the role-to-account configuration.
type Handler struct {
	logger    *slog.Logger
	repo      Repository
	accounts  *accounts.Service
	validator *validator.Validate
}

func NewHandler(logger *slog.Logger, repo Repository, accountSvc *accounts.Service) *Handler {
	return &Handler{logger: logger, repo: repo, accounts: accountSvc, validator: validator.New()}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Put("/{rol}", h.set)
}

type mappingRequest struct {
	CuentaID string `json:"cuentaId" validate:"required,uuid"`
}

type mappingResponse struct {
	Rol      Role   `json:"rol"`
	CuentaID string `json:"cuentaId"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	companyID := tenant.CompanyFromContext(r.Context())
	items, err := h.repo.List(r.Context(), companyID)
	if err != nil {
		h.logger.Error("list mappings", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Error al obtener configuración contable")
		return
	}
	out := make([]mappingResponse, 0, len(items))
	for _, m := range items {
		out = append(out, mappingResponse{Rol: m.Role, CuentaID: m.AccountID.String()})
	}
	httpx.OK(w, http.StatusOK, out)
}

// set maps a role to a movement account of the same company.
func (h *Handler) set(w http.ResponseWriter, r *http.Request) {
	role := Role(chi.URLParam(r, "rol"))
	if !ValidRole(role) {
		httpx.Fail(w, http.StatusNotFound, "Rol contable desconocido")
		return
	}
	var req mappingRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Solicitud inválida")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Datos de configuración inválidos")
		return
	}
	accountID, err := uuid.Parse(req.CuentaID)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Datos de configuración inválidos")
		return
	}
	companyID := tenant.CompanyFromContext(r.Context())
	account, err := h.accounts.Get(r.Context(), companyID, accountID)
	if err != nil {
		if errors.Is(err, shared.ErrAccountNotFound) {
			httpx.Fail(w, http.StatusNotFound, err.Error())
			return
		}
		h.logger.Error("resolve mapping account", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Error al configurar cuenta")
		return
	}
	if !account.AcceptsMovement {
		httpx.Fail(w, http.StatusBadRequest, "La cuenta no acepta movimientos")
		return
	}
	if err := h.repo.Set(r.Context(), AccountMapping{CompanyID: companyID, Role: role, AccountID: accountID}); err != nil {
		h.logger.Error("set mapping", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Error al configurar cuenta")
		return
	}
	httpx.OK(w, http.StatusOK, mappingResponse{Rol: role, CuentaID: accountID.String()})
}
