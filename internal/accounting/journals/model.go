package journals

import (
	"time"

	"github.com/google/uuid"

	"github.com/quipu-erp/quipu/internal/accounting/accounts"
)

// EntryStatus enumerates the journal entry lifecycle. BORRADOR is the
// initial state; the other two are terminal for their transition.
type EntryStatus string

const (
	EntryStatusDraft  EntryStatus = "BORRADOR"
	EntryStatusPosted EntryStatus = "CONTABILIZADO"
	EntryStatusVoided EntryStatus = "ANULADO"
)

// EntryType distinguishes manual entries from those generated when an
// invoice is issued.
type EntryType string

const (
	EntryTypeManual    EntryType = "MANUAL"
	EntryTypeAutomatic EntryType = "AUTOMATICO"
)

// JournalEntry is the atomic unit of bookkeeping: a dated, described
// group of balanced line movements. Number is assigned once at creation
// and never changes.
type JournalEntry struct {
	ID          uuid.UUID
	CompanyID   uuid.UUID
	Number      string
	Date        time.Time
	Description string
	Type        EntryType
	Status      EntryStatus
	InvoiceID   *uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Lines   []JournalLine
	Invoice *InvoiceRef
}

// JournalLine stores one debit-or-credit amount against one account.
// Lines are owned by their entry and persist atomically with it.
type JournalLine struct {
	ID          uuid.UUID
	EntryID     uuid.UUID
	AccountID   uuid.UUID
	Description string
	Debit       float64
	Credit      float64

	Account *accounts.Account
}

// InvoiceRef annotates an automatic entry with its originating invoice.
// Informational only; the link is weak.
type InvoiceRef struct {
	ID           uuid.UUID
	Number       string
	Total        float64
	CustomerID   uuid.UUID
	CustomerName string
}
