package invoicing

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/quipu-erp/quipu/internal/platform/httpx"
	"github.com/quipu-erp/quipu/internal/tenant"
)

// Handler exposes the invoice endpoints as JSON.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

type invoiceLineRequest struct {
	ProductoID string  `json:"productoId" validate:"required,uuid"`
	Cantidad   float64 `json:"cantidad" validate:"required,gt=0"`
	Descuento  float64 `json:"descuento" validate:"gte=0,lte=100"`
}

type invoiceRequest struct {
	ClienteID     string               `json:"clienteId" validate:"required,uuid"`
	Fecha         string               `json:"fecha" validate:"omitempty,datetime=2006-01-02"`
	Observaciones string               `json:"observaciones"`
	Detalles      []invoiceLineRequest `json:"detalles" validate:"required,min=1,dive"`
}

type invoiceLineResponse struct {
	ID             string           `json:"id"`
	ProductoID     string           `json:"productoId"`
	Producto       *productResponse `json:"producto,omitempty"`
	Cantidad       float64          `json:"cantidad"`
	PrecioUnitario float64          `json:"precioUnitario"`
	Descuento      float64          `json:"descuento"`
	Subtotal       float64          `json:"subtotal"`
	IVA            float64          `json:"iva"`
	ICE            float64          `json:"ice"`
	Total          float64          `json:"total"`
}

type productResponse struct {
	ID     string `json:"id"`
	Codigo string `json:"codigo"`
	Nombre string `json:"nombre"`
}

type customerResponse struct {
	ID             string `json:"id"`
	Identificacion string `json:"identificacion"`
	Nombre         string `json:"nombre"`
}

type invoiceResponse struct {
	ID             string                `json:"id"`
	Numero         string                `json:"numero"`
	Fecha          string                `json:"fecha"`
	ClienteID      string                `json:"clienteId"`
	Cliente        *customerResponse     `json:"cliente,omitempty"`
	Observaciones  string                `json:"observaciones,omitempty"`
	Estado         InvoiceStatus         `json:"estado"`
	Subtotal       float64               `json:"subtotal"`
	Descuento      float64               `json:"descuento"`
	BaseImponible  float64               `json:"baseImponible"`
	IVA            float64               `json:"iva"`
	ICE            float64               `json:"ice"`
	Total          float64               `json:"total"`
	TotalFormatted string                `json:"totalFormateado"`
	Detalles       []invoiceLineResponse `json:"detalles"`
}

func toResponse(inv Invoice) invoiceResponse {
	resp := invoiceResponse{
		ID:             inv.ID.String(),
		Numero:         inv.Number,
		Fecha:          inv.Date.Format("2006-01-02"),
		ClienteID:      inv.CustomerID.String(),
		Observaciones:  inv.Notes,
		Estado:         inv.Status,
		Subtotal:       inv.Subtotal,
		Descuento:      inv.Discount,
		BaseImponible:  inv.TaxableBase,
		IVA:            inv.IVA,
		ICE:            inv.ICE,
		Total:          inv.Total,
		TotalFormatted: FormatAmount(inv.Total),
		Detalles:       make([]invoiceLineResponse, 0, len(inv.Lines)),
	}
	if inv.Customer != nil {
		resp.Cliente = &customerResponse{
			ID:             inv.Customer.ID.String(),
			Identificacion: inv.Customer.Identification,
			Nombre:         inv.Customer.Name,
		}
	}
	for _, line := range inv.Lines {
		lr := invoiceLineResponse{
			ID:             line.ID.String(),
			ProductoID:     line.ProductID.String(),
			Cantidad:       line.Quantity,
			PrecioUnitario: line.UnitPrice,
			Descuento:      line.DiscountPercent,
			Subtotal:       line.Subtotal,
			IVA:            line.IVA,
			ICE:            line.ICE,
			Total:          line.Total,
		}
		if line.Product != nil {
			lr.Producto = &productResponse{
				ID:     line.Product.ID.String(),
				Codigo: line.Product.Code,
				Nombre: line.Product.Name,
			}
		}
		resp.Detalles = append(resp.Detalles, lr)
	}
	return resp
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	companyID := tenant.CompanyFromContext(r.Context())
	invoices, err := h.service.List(r.Context(), companyID)
	if err != nil {
		h.logger.Error("list invoices", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Error al obtener facturas")
		return
	}
	out := make([]invoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, toResponse(inv))
	}
	httpx.OK(w, http.StatusOK, out)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := invoiceID(w, r)
	if !ok {
		return
	}
	companyID := tenant.CompanyFromContext(r.Context())
	inv, err := h.service.Get(r.Context(), companyID, id)
	if err != nil {
		h.respondServiceError(w, err, "Error al obtener factura")
		return
	}
	httpx.OK(w, http.StatusOK, toResponse(inv))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req invoiceRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Solicitud inválida")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Datos de factura inválidos")
		return
	}
	input, err := req.toInput()
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Datos de factura inválidos")
		return
	}
	companyID := tenant.CompanyFromContext(r.Context())
	inv, err := h.service.Create(r.Context(), companyID, input)
	if err != nil {
		h.respondServiceError(w, err, "Error al crear factura")
		return
	}
	httpx.OK(w, http.StatusCreated, toResponse(inv))
}

func (req invoiceRequest) toInput() (InvoiceInput, error) {
	customerID, err := uuid.Parse(req.ClienteID)
	if err != nil {
		return InvoiceInput{}, err
	}
	input := InvoiceInput{
		CustomerID: customerID,
		Notes:      req.Observaciones,
		Lines:      make([]InvoiceLineInput, 0, len(req.Detalles)),
	}
	if req.Fecha != "" {
		date, err := time.Parse("2006-01-02", req.Fecha)
		if err != nil {
			return InvoiceInput{}, err
		}
		input.Date = date
	}
	for _, d := range req.Detalles {
		productID, err := uuid.Parse(d.ProductoID)
		if err != nil {
			return InvoiceInput{}, err
		}
		input.Lines = append(input.Lines, InvoiceLineInput{
			ProductID:       productID,
			Quantity:        d.Cantidad,
			DiscountPercent: d.Descuento,
		})
	}
	return input, nil
}

func (h *Handler) issue(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Issue, "Error al emitir factura")
}

func (h *Handler) void(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Void, "Error al anular factura")
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := invoiceID(w, r)
	if !ok {
		return
	}
	companyID := tenant.CompanyFromContext(r.Context())
	if err := h.service.Delete(r.Context(), companyID, id); err != nil {
		h.respondServiceError(w, err, "Error al eliminar factura")
		return
	}
	httpx.OK(w, http.StatusOK, nil)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrCustomerNotFound), errors.Is(err, ErrProductNotFound):
		httpx.Fail(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidStatus):
		httpx.Fail(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrNoLines), errors.Is(err, ErrInvalidLine):
		httpx.Fail(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("invoices service", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, fallback)
	}
}
