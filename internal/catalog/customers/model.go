package customers

import (
	"time"

	"github.com/google/uuid"
)

// Customer is a billing counterparty, scoped to one company.
// Identification holds the RUC or cédula and is unique per company.
type Customer struct {
	ID             uuid.UUID
	CompanyID      uuid.UUID
	Identification string
	Name           string
	Email          string
	Phone          string
	Address        string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
