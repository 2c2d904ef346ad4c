package invoicing

import "errors"

var (
	// ErrNotFound indicates the invoice does not exist in this company.
	ErrNotFound = errors.New("facturas: factura no encontrada")
	// ErrInvalidStatus indicates a lifecycle transition from the wrong state.
	ErrInvalidStatus = errors.New("facturas: estado de factura inválido para la operación")
	// ErrNoLines indicates an invoice without billed products.
	ErrNoLines = errors.New("facturas: la factura debe tener al menos un detalle")
	// ErrInvalidLine indicates a line with a non-positive quantity or an
	// out-of-range discount.
	ErrInvalidLine = errors.New("facturas: detalle de factura inválido")
	// ErrCustomerNotFound indicates the customer is missing or foreign.
	ErrCustomerNotFound = errors.New("facturas: cliente no encontrado")
	// ErrProductNotFound indicates a line references a missing or foreign product.
	ErrProductNotFound = errors.New("facturas: producto no encontrado")
)
