package journals

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/quipu-erp/quipu/internal/accounting/shared"
	"github.com/quipu-erp/quipu/internal/platform/httpx"
)

// Handler exposes the journal entry engine as JSON endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

type entryLineRequest struct {
	CuentaID    string  `json:"cuentaId" validate:"required,uuid"`
	Descripcion string  `json:"descripcion"`
	Debe        float64 `json:"debe" validate:"gte=0"`
	Haber       float64 `json:"haber" validate:"gte=0"`
}

type entryRequest struct {
	Fecha       string             `json:"fecha" validate:"required"`
	Descripcion string             `json:"descripcion" validate:"required"`
	Detalles    []entryLineRequest `json:"detalles" validate:"required,min=2,dive"`
}

type lineAccountResponse struct {
	ID         string `json:"id"`
	Codigo     string `json:"codigo"`
	Nombre     string `json:"nombre"`
	TipoCuenta string `json:"tipoCuenta"`
}

type entryLineResponse struct {
	ID          string               `json:"id"`
	CuentaID    string               `json:"cuentaId"`
	Descripcion string               `json:"descripcion,omitempty"`
	Debe        float64              `json:"debe"`
	Haber       float64              `json:"haber"`
	Cuenta      *lineAccountResponse `json:"cuenta,omitempty"`
}

type invoiceRefResponse struct {
	ID            string  `json:"id"`
	NumeroFactura string  `json:"numeroFactura"`
	Total         float64 `json:"total"`
	ClienteID     string  `json:"clienteId"`
	Cliente       string  `json:"cliente"`
}

type entryResponse struct {
	ID          string              `json:"id"`
	Numero      string              `json:"numero"`
	Fecha       string              `json:"fecha"`
	Descripcion string              `json:"descripcion"`
	TipoAsiento string              `json:"tipoAsiento"`
	Estado      string              `json:"estado"`
	FacturaID   *string             `json:"facturaId,omitempty"`
	Detalles    []entryLineResponse `json:"detalles"`
	Factura     *invoiceRefResponse `json:"factura,omitempty"`
}

func toEntryResponse(e JournalEntry) entryResponse {
	resp := entryResponse{
		ID:          e.ID.String(),
		Numero:      e.Number,
		Fecha:       e.Date.Format("2006-01-02"),
		Descripcion: e.Description,
		TipoAsiento: string(e.Type),
		Estado:      string(e.Status),
		Detalles:    make([]entryLineResponse, 0, len(e.Lines)),
	}
	if e.InvoiceID != nil {
		id := e.InvoiceID.String()
		resp.FacturaID = &id
	}
	for _, line := range e.Lines {
		lr := entryLineResponse{
			ID:          line.ID.String(),
			CuentaID:    line.AccountID.String(),
			Descripcion: line.Description,
			Debe:        line.Debit,
			Haber:       line.Credit,
		}
		if line.Account != nil {
			lr.Cuenta = &lineAccountResponse{
				ID:         line.Account.ID.String(),
				Codigo:     line.Account.Code,
				Nombre:     line.Account.Name,
				TipoCuenta: string(line.Account.Type),
			}
		}
		resp.Detalles = append(resp.Detalles, lr)
	}
	if e.Invoice != nil {
		resp.Factura = &invoiceRefResponse{
			ID:            e.Invoice.ID.String(),
			NumeroFactura: e.Invoice.Number,
			Total:         e.Invoice.Total,
			ClienteID:     e.Invoice.CustomerID.String(),
			Cliente:       e.Invoice.CustomerName,
		}
	}
	return resp
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.List(r.Context(), companyID(r))
	if err != nil {
		h.logger.Error("list journal entries", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Error al obtener asientos contables")
		return
	}
	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryResponse(e))
	}
	httpx.OK(w, http.StatusOK, out)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := entryID(r)
	if err != nil {
		httpx.Fail(w, http.StatusNotFound, shared.ErrEntryNotFound.Error())
		return
	}
	entry, err := h.service.Get(r.Context(), companyID(r), id)
	if err != nil {
		h.respondServiceError(w, err, "Error al obtener asiento contable")
		return
	}
	httpx.OK(w, http.StatusOK, toEntryResponse(entry))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Solicitud inválida")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Datos de asiento inválidos")
		return
	}
	date, err := time.Parse("2006-01-02", req.Fecha)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Fecha inválida")
		return
	}
	input := EntryInput{
		Date:        date,
		Description: req.Descripcion,
		Type:        EntryTypeManual,
		Lines:       make([]EntryLineInput, 0, len(req.Detalles)),
	}
	for _, line := range req.Detalles {
		accountID, err := uuid.Parse(line.CuentaID)
		if err != nil {
			httpx.Fail(w, http.StatusBadRequest, "Cuenta inválida en los movimientos")
			return
		}
		input.Lines = append(input.Lines, EntryLineInput{
			AccountID:   accountID,
			Description: line.Descripcion,
			Debit:       line.Debe,
			Credit:      line.Haber,
		})
	}
	entry, err := h.service.Create(r.Context(), companyID(r), input)
	if err != nil {
		h.respondServiceError(w, err, "Error al crear asiento contable")
		return
	}
	httpx.OK(w, http.StatusCreated, toEntryResponse(entry))
}

func (h *Handler) post(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Post, "Error al contabilizar asiento")
}

func (h *Handler) void(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Void, "Error al anular asiento")
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, companyID, entryID uuid.UUID) (JournalEntry, error), fallback string) {
	id, err := entryID(r)
	if err != nil {
		httpx.Fail(w, http.StatusNotFound, shared.ErrEntryNotFound.Error())
		return
	}
	entry, err := op(r.Context(), companyID(r), id)
	if err != nil {
		h.respondServiceError(w, err, fallback)
		return
	}
	httpx.OK(w, http.StatusOK, toEntryResponse(entry))
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, shared.ErrEntryNotFound), errors.Is(err, shared.ErrAccountNotFound):
		httpx.Fail(w, http.StatusNotFound, err.Error())
	case errors.Is(err, shared.ErrInvalidStatus):
		httpx.Fail(w, http.StatusConflict, err.Error())
	case errors.Is(err, shared.ErrUnbalanced), errors.Is(err, shared.ErrTooFewLines), errors.Is(err, shared.ErrInvalidInput):
		httpx.Fail(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("journals service", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, fallback)
	}
}
