package shared

import "errors"

var (
	// ErrInvalidInput tags malformed or out-of-range input; wrap it so
	// handlers can map the whole family to a 400.
	ErrInvalidInput = errors.New("contabilidad: datos inválidos")
	// ErrUnbalanced indicates debit != credit beyond tolerance.
	ErrUnbalanced = errors.New("contabilidad: el total del debe debe ser igual al total del haber")
	// ErrTooFewLines indicates less than two lines.
	ErrTooFewLines = errors.New("contabilidad: debe haber al menos 2 movimientos")
	// ErrEntryNotFound indicates a missing journal entry.
	ErrEntryNotFound = errors.New("contabilidad: asiento no encontrado")
	// ErrAccountNotFound indicates a missing account.
	ErrAccountNotFound = errors.New("contabilidad: cuenta no encontrada")
	// ErrInvalidStatus indicates the requested transition is not legal.
	ErrInvalidStatus = errors.New("contabilidad: transición de estado inválida")
	// ErrDuplicateCode indicates an account code collision within the company.
	ErrDuplicateCode = errors.New("contabilidad: el código de cuenta ya existe")
	// ErrAccountInUse indicates a delete attempt on a referenced account.
	ErrAccountInUse = errors.New("contabilidad: la cuenta tiene movimientos y no puede eliminarse")
	// ErrMappingNotFound indicates the company has no account mapping configured.
	ErrMappingNotFound = errors.New("contabilidad: mapeo de cuentas no configurado")
)
