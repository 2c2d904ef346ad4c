package accounts

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/quipu-erp/quipu/internal/accounting/shared"
)

// AccountInput groups fields accepted when creating or updating an account.
type AccountInput struct {
	Code            string
	Name            string
	Type            AccountType
	Level           int
	ParentID        *uuid.UUID
	AcceptsMovement bool
	Active          bool
}

// Validate ensures the input meets the chart-of-accounts rules.
func (in AccountInput) Validate() error {
	if strings.TrimSpace(in.Code) == "" {
		return fmt.Errorf("%w: el código es requerido", shared.ErrInvalidInput)
	}
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: el nombre es requerido", shared.ErrInvalidInput)
	}
	if !ValidType(in.Type) {
		return fmt.Errorf("%w: tipo de cuenta %q", shared.ErrInvalidInput, in.Type)
	}
	if in.Level < 1 || in.Level > 5 {
		return fmt.Errorf("%w: el nivel debe estar entre 1 y 5", shared.ErrInvalidInput)
	}
	return nil
}
