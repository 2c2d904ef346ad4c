package invoicing

import (
	"time"

	"github.com/google/uuid"
)

// InvoiceLineInput is one billed product. Quantity must be positive;
// the unit price always comes from the product catalog.
type InvoiceLineInput struct {
	ProductID       uuid.UUID
	Quantity        float64
	DiscountPercent float64
}

// InvoiceInput is the create payload. Totals are never part of it.
type InvoiceInput struct {
	CustomerID uuid.UUID
	Date       time.Time
	Notes      string
	Lines      []InvoiceLineInput
}

func (in InvoiceInput) Validate() error {
	if in.CustomerID == uuid.Nil {
		return ErrCustomerNotFound
	}
	if len(in.Lines) == 0 {
		return ErrNoLines
	}
	for _, line := range in.Lines {
		if line.ProductID == uuid.Nil {
			return ErrProductNotFound
		}
		if line.Quantity <= 0 || line.DiscountPercent < 0 || line.DiscountPercent > 100 {
			return ErrInvalidLine
		}
	}
	return nil
}
