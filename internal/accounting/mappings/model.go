package mappings

import (
	"time"

	"github.com/google/uuid"
)

// Role names the bookkeeping purpose an account plays when invoices are
// journalized automatically.
type Role string

const (
	RoleReceivable Role = "CXC"
	RoleRevenue    Role = "VENTAS"
	RoleVATPayable Role = "IVA"
)

// ValidRole reports whether the role is one of the known purposes.
func ValidRole(r Role) bool {
	switch r {
	case RoleReceivable, RoleRevenue, RoleVATPayable:
		return true
	}
	return false
}

// AccountMapping links a role to a movement account within a company.
type AccountMapping struct {
	CompanyID uuid.UUID
	Role      Role
	AccountID uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}
