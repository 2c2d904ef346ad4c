package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/quipu-erp/quipu/internal/accounting/journals"
	"github.com/quipu-erp/quipu/internal/accounting/mappings"
	"github.com/quipu-erp/quipu/internal/accounting/shared"
	"github.com/quipu-erp/quipu/internal/invoicing"
)

// Journalizer books issued invoices into the ledger. It resolves the
// company's account mappings and creates a posted AUTOMATICO entry:
// the receivable account is debited for the invoice total, the revenue
// account credited for the taxable base, and the tax account credited
// for IVA plus ICE.
type Journalizer struct {
	logger   *slog.Logger
	invoices invoicing.Repository
	mappings mappings.Repository
	journals *journals.Service
}

func NewJournalizer(logger *slog.Logger, invRepo invoicing.Repository, mapRepo mappings.Repository, journalSvc *journals.Service) *Journalizer {
	return &Journalizer{logger: logger, invoices: invRepo, mappings: mapRepo, journals: journalSvc}
}

// HandleInvoiceJournalize processes TaskInvoiceJournalize tasks.
func (j *Journalizer) HandleInvoiceJournalize(ctx context.Context, t *asynq.Task) error {
	var payload InvoiceJournalizePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	inv, err := j.invoices.Get(ctx, payload.CompanyID, payload.InvoiceID)
	if err != nil {
		if errors.Is(err, invoicing.ErrNotFound) {
			j.logger.Warn("journalize: invoice gone",
				slog.String("invoice_id", payload.InvoiceID.String()))
			return asynq.SkipRetry
		}
		return err
	}
	if inv.Status != invoicing.InvoiceStatusIssued {
		j.logger.Warn("journalize: invoice not issued",
			slog.String("invoice_id", inv.ID.String()),
			slog.String("status", string(inv.Status)))
		return asynq.SkipRetry
	}

	input, err := j.buildEntry(ctx, inv)
	if err != nil {
		// A missing mapping retries: the company may still be
		// configuring its chart of accounts.
		if errors.Is(err, shared.ErrMappingNotFound) {
			j.logger.Warn("journalize: mapping missing",
				slog.String("company_id", inv.CompanyID.String()),
				slog.Any("error", err))
		}
		return err
	}
	entry, err := j.journals.Create(ctx, inv.CompanyID, input)
	if err != nil {
		return err
	}
	if _, err := j.journals.Post(ctx, inv.CompanyID, entry.ID); err != nil {
		return err
	}
	j.logger.Info("invoice journalized",
		slog.String("invoice", inv.Number),
		slog.String("entry", entry.Number))
	return nil
}

func (j *Journalizer) buildEntry(ctx context.Context, inv invoicing.Invoice) (journals.EntryInput, error) {
	receivable, err := j.mappings.Get(ctx, inv.CompanyID, mappings.RoleReceivable)
	if err != nil {
		return journals.EntryInput{}, err
	}
	revenue, err := j.mappings.Get(ctx, inv.CompanyID, mappings.RoleRevenue)
	if err != nil {
		return journals.EntryInput{}, err
	}

	customer := inv.CustomerID.String()
	if inv.Customer != nil {
		customer = inv.Customer.Name
	}
	invoiceID := inv.ID
	input := journals.EntryInput{
		Date:        inv.Date,
		Description: fmt.Sprintf("Venta según factura %s - %s", inv.Number, customer),
		Type:        journals.EntryTypeAutomatic,
		InvoiceID:   &invoiceID,
		Lines: []journals.EntryLineInput{
			{AccountID: receivable.AccountID, Description: "Cuentas por cobrar", Debit: inv.Total},
			{AccountID: revenue.AccountID, Description: "Ventas", Credit: inv.TaxableBase},
		},
	}
	if tax := inv.IVA + inv.ICE; tax > 0 {
		vat, err := j.mappings.Get(ctx, inv.CompanyID, mappings.RoleVATPayable)
		if err != nil {
			return journals.EntryInput{}, err
		}
		input.Lines = append(input.Lines, journals.EntryLineInput{
			AccountID:   vat.AccountID,
			Description: "Impuestos por pagar",
			Credit:      tax,
		})
	}
	return input, nil
}
