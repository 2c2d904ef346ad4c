package jobs

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskInvoiceJournalize books an issued invoice into the ledger.
	TaskInvoiceJournalize = "invoice:journalize"
)

// InvoiceJournalizePayload identifies the invoice to book.
type InvoiceJournalizePayload struct {
	CompanyID uuid.UUID `json:"companyId"`
	InvoiceID uuid.UUID `json:"invoiceId"`
}

// NewInvoiceJournalizeTask constructs the Asynq task for one invoice.
func NewInvoiceJournalizeTask(payload InvoiceJournalizePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskInvoiceJournalize, data, asynq.MaxRetry(5)), nil
}
