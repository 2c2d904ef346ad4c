package tenant

import (
	"time"

	"github.com/google/uuid"
)

// Company is the isolation boundary: every record in the system belongs
// to exactly one company, and every user owns exactly one company.
type Company struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	RUC       string
	Address   string
	Phone     string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
