package invoicing

import (
	"time"

	"github.com/google/uuid"

	"github.com/quipu-erp/quipu/internal/catalog/customers"
	"github.com/quipu-erp/quipu/internal/catalog/products"
)

// InvoiceStatus enumerates the invoice lifecycle.
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "PENDIENTE"
	InvoiceStatusIssued  InvoiceStatus = "EMITIDA"
	InvoiceStatusVoided  InvoiceStatus = "ANULADA"
)

// Invoice carries the computed tax totals. All amounts are derived
// server-side from the lines; callers never supply them.
type Invoice struct {
	ID          uuid.UUID
	CompanyID   uuid.UUID
	CustomerID  uuid.UUID
	Number      string
	Date        time.Time
	Notes       string
	Status      InvoiceStatus
	Subtotal    float64
	Discount    float64
	TaxableBase float64
	IVA         float64
	ICE         float64
	Total       float64
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Customer *customers.Customer
	Lines    []InvoiceLine
}

// InvoiceLine stores one billed product with its per-line tax split.
type InvoiceLine struct {
	ID              uuid.UUID
	InvoiceID       uuid.UUID
	ProductID       uuid.UUID
	Quantity        float64
	UnitPrice       float64
	DiscountPercent float64
	Subtotal        float64
	IVA             float64
	ICE             float64
	Total           float64

	Product *products.Product
}
