package accounts

import (
	"time"

	"github.com/google/uuid"
)

// AccountType enumerates chart-of-accounts categories.
type AccountType string

const (
	AccountTypeAsset     AccountType = "ACTIVO"
	AccountTypeLiability AccountType = "PASIVO"
	AccountTypeEquity    AccountType = "PATRIMONIO"
	AccountTypeIncome    AccountType = "INGRESO"
	AccountTypeExpense   AccountType = "GASTO"
)

// ValidType reports whether t is one of the enumerated account types.
func ValidType(t AccountType) bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity, AccountTypeIncome, AccountTypeExpense:
		return true
	}
	return false
}

// Account models a chart of accounts node. Parent is a weak link used
// for hierarchy display only; deleting a parent never cascades.
type Account struct {
	ID              uuid.UUID
	CompanyID       uuid.UUID
	Code            string
	Name            string
	Type            AccountType
	Level           int
	ParentID        *uuid.UUID
	AcceptsMovement bool
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Parent *Account
}
