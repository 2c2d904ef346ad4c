package invoicing

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/quipu-erp/quipu/internal/catalog/customers"
	"github.com/quipu-erp/quipu/internal/catalog/products"
)

// Enqueuer hands issued invoices to the background worker that books
// them into the ledger.
type Enqueuer interface {
	EnqueueInvoiceJournalize(ctx context.Context, companyID, invoiceID uuid.UUID) error
}

// Service creates invoices with server-computed totals and drives the
// PENDIENTE/EMITIDA/ANULADA lifecycle.
type Service struct {
	logger    *slog.Logger
	repo      Repository
	customers customers.Repository
	products  products.Repository
	enqueuer  Enqueuer
	now       func() time.Time
}

func NewService(logger *slog.Logger, repo Repository, custRepo customers.Repository, prodRepo products.Repository, enqueuer Enqueuer) *Service {
	return &Service{
		logger:    logger,
		repo:      repo,
		customers: custRepo,
		products:  prodRepo,
		enqueuer:  enqueuer,
		now:       time.Now,
	}
}

func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

func (s *Service) List(ctx context.Context, companyID uuid.UUID) ([]Invoice, error) {
	return s.repo.List(ctx, companyID)
}

func (s *Service) Get(ctx context.Context, companyID, invoiceID uuid.UUID) (Invoice, error) {
	return s.repo.Get(ctx, companyID, invoiceID)
}

// Create validates the payload, prices every line from the product
// catalog and persists the invoice atomically with its lines. The
// invoice starts out PENDIENTE and carries no ledger entry yet.
func (s *Service) Create(ctx context.Context, companyID uuid.UUID, input InvoiceInput) (Invoice, error) {
	if err := input.Validate(); err != nil {
		return Invoice{}, err
	}
	if input.Date.IsZero() {
		input.Date = s.now()
	}
	if _, err := s.customers.Get(ctx, companyID, input.CustomerID); err != nil {
		if errors.Is(err, customers.ErrNotFound) {
			return Invoice{}, ErrCustomerNotFound
		}
		return Invoice{}, err
	}
	lines, lineTotals, err := s.buildLines(ctx, companyID, input.Lines)
	if err != nil {
		return Invoice{}, err
	}
	totals := SumTotals(lineTotals)

	invoiceID := uuid.New()
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		number, err := tx.NextNumber(ctx, companyID)
		if err != nil {
			return err
		}
		inv := Invoice{
			ID:          invoiceID,
			CompanyID:   companyID,
			CustomerID:  input.CustomerID,
			Number:      number,
			Date:        input.Date,
			Notes:       input.Notes,
			Status:      InvoiceStatusPending,
			Subtotal:    totals.Subtotal,
			Discount:    totals.Discount,
			TaxableBase: totals.TaxableBase,
			IVA:         totals.IVA,
			ICE:         totals.ICE,
			Total:       totals.Total,
		}
		if err := tx.InsertInvoice(ctx, inv); err != nil {
			return err
		}
		return tx.InsertLines(ctx, invoiceID, lines)
	})
	if err != nil {
		return Invoice{}, err
	}
	return s.repo.Get(ctx, companyID, invoiceID)
}

// buildLines resolves products and computes the per-line tax split.
func (s *Service) buildLines(ctx context.Context, companyID uuid.UUID, inputs []InvoiceLineInput) ([]InvoiceLine, []LineTotals, error) {
	ids := make([]uuid.UUID, 0, len(inputs))
	seen := make(map[uuid.UUID]struct{}, len(inputs))
	for _, in := range inputs {
		if _, ok := seen[in.ProductID]; ok {
			continue
		}
		seen[in.ProductID] = struct{}{}
		ids = append(ids, in.ProductID)
	}
	found, err := s.products.GetMany(ctx, companyID, ids)
	if err != nil {
		return nil, nil, err
	}
	byID := make(map[uuid.UUID]products.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}

	lines := make([]InvoiceLine, 0, len(inputs))
	lineTotals := make([]LineTotals, 0, len(inputs))
	for _, in := range inputs {
		prod, ok := byID[in.ProductID]
		if !ok || !prod.Active {
			return nil, nil, ErrProductNotFound
		}
		lt := ComputeLineTotals(in.Quantity, prod.Price, in.DiscountPercent, prod.IVA, prod.ICE)
		lines = append(lines, InvoiceLine{
			ProductID:       in.ProductID,
			Quantity:        in.Quantity,
			UnitPrice:       prod.Price,
			DiscountPercent: in.DiscountPercent,
			Subtotal:        lt.TaxableBase,
			IVA:             lt.IVA,
			ICE:             lt.ICE,
			Total:           lt.Total,
		})
		lineTotals = append(lineTotals, lt)
	}
	return lines, lineTotals, nil
}

// Issue transitions a pending invoice to EMITIDA and enqueues the job
// that books the AUTOMATICO ledger entry. The transition commits
// first; a failed enqueue is logged and retried by the caller, it does
// not roll the invoice back.
func (s *Service) Issue(ctx context.Context, companyID, invoiceID uuid.UUID) (Invoice, error) {
	inv, err := s.transition(ctx, companyID, invoiceID, InvoiceStatusPending, InvoiceStatusIssued)
	if err != nil {
		return Invoice{}, err
	}
	if err := s.enqueuer.EnqueueInvoiceJournalize(ctx, companyID, invoiceID); err != nil {
		s.logger.Error("enqueue invoice journalize",
			slog.String("invoice_id", invoiceID.String()),
			slog.Any("error", err))
	}
	return inv, nil
}

// Void transitions an issued invoice to ANULADA. The linked journal
// entry stays on the ledger; voiding it is a separate bookkeeping act.
func (s *Service) Void(ctx context.Context, companyID, invoiceID uuid.UUID) (Invoice, error) {
	return s.transition(ctx, companyID, invoiceID, InvoiceStatusIssued, InvoiceStatusVoided)
}

// Delete removes a pending invoice with its lines. Issued and voided
// invoices are part of the fiscal record and cannot be deleted.
func (s *Service) Delete(ctx context.Context, companyID, invoiceID uuid.UUID) error {
	return s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, err := tx.GetForUpdate(ctx, companyID, invoiceID)
		if err != nil {
			return err
		}
		if current.Status != InvoiceStatusPending {
			return ErrInvalidStatus
		}
		return tx.DeleteInvoice(ctx, companyID, invoiceID)
	})
}

func (s *Service) transition(ctx context.Context, companyID, invoiceID uuid.UUID, from, to InvoiceStatus) (Invoice, error) {
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, err := tx.GetForUpdate(ctx, companyID, invoiceID)
		if err != nil {
			return err
		}
		if current.Status != from {
			return ErrInvalidStatus
		}
		return tx.UpdateStatus(ctx, companyID, invoiceID, to)
	})
	if err != nil {
		return Invoice{}, err
	}
	return s.repo.Get(ctx, companyID, invoiceID)
}
