package journals

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/quipu-erp/quipu/internal/accounting/shared"
)

// BalanceTolerance absorbs decimal rounding when comparing debit and
// credit totals. The same tolerance applies on every validation path.
const BalanceTolerance = 0.01

// EntryLineInput describes one candidate line movement.
type EntryLineInput struct {
	AccountID   uuid.UUID
	Description string
	Debit       float64
	Credit      float64
}

// EntryInput groups fields required to create a journal entry.
type EntryInput struct {
	Date        time.Time
	Description string
	Type        EntryType
	InvoiceID   *uuid.UUID
	Lines       []EntryLineInput
}

// Validate ensures the candidate entry meets the double-entry rules:
// at least two lines, non-negative single-sided amounts, and debit and
// credit totals equal within BalanceTolerance.
func (in EntryInput) Validate() error {
	if strings.TrimSpace(in.Description) == "" {
		return fmt.Errorf("%w: la descripción es requerida", shared.ErrInvalidInput)
	}
	if in.Date.IsZero() {
		return fmt.Errorf("%w: la fecha es requerida", shared.ErrInvalidInput)
	}
	switch in.Type {
	case EntryTypeManual, EntryTypeAutomatic:
	default:
		return fmt.Errorf("%w: tipo de asiento %q", shared.ErrInvalidInput, in.Type)
	}
	if len(in.Lines) < 2 {
		return shared.ErrTooFewLines
	}
	var debit, credit float64
	for idx, line := range in.Lines {
		if line.AccountID == uuid.Nil {
			return fmt.Errorf("%w: movimiento %d sin cuenta", shared.ErrInvalidInput, idx+1)
		}
		if line.Debit < 0 || line.Credit < 0 {
			return fmt.Errorf("%w: movimiento %d con monto negativo", shared.ErrInvalidInput, idx+1)
		}
		if line.Debit > 0 && line.Credit > 0 {
			return fmt.Errorf("%w: movimiento %d no puede tener debe y haber", shared.ErrInvalidInput, idx+1)
		}
		debit += line.Debit
		credit += line.Credit
	}
	if math.Abs(debit-credit) >= BalanceTolerance {
		return shared.ErrUnbalanced
	}
	return nil
}
