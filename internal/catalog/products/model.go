package products

import (
	"time"

	"github.com/google/uuid"
)

// Product is a sellable item. The IVA and ICE flags drive invoice tax
// computation; code is unique per company.
type Product struct {
	ID          uuid.UUID
	CompanyID   uuid.UUID
	Code        string
	Name        string
	Description string
	Price       float64
	IVA         bool
	ICE         bool
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
