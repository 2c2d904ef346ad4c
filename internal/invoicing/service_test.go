package invoicing

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quipu-erp/quipu/internal/catalog/customers"
	"github.com/quipu-erp/quipu/internal/catalog/products"
)

type mockRepository struct {
	invoices map[uuid.UUID]Invoice
	lines    map[uuid.UUID][]InvoiceLine
	counters map[uuid.UUID]int64

	insertErr error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		invoices: make(map[uuid.UUID]Invoice),
		lines:    make(map[uuid.UUID][]InvoiceLine),
		counters: make(map[uuid.UUID]int64),
	}
}

func (m *mockRepository) List(ctx context.Context, companyID uuid.UUID) ([]Invoice, error) {
	var out []Invoice
	for _, inv := range m.invoices {
		if inv.CompanyID == companyID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (m *mockRepository) Get(ctx context.Context, companyID, invoiceID uuid.UUID) (Invoice, error) {
	inv, ok := m.invoices[invoiceID]
	if !ok || inv.CompanyID != companyID {
		return Invoice{}, ErrNotFound
	}
	inv.Lines = m.lines[invoiceID]
	return inv, nil
}

func (m *mockRepository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	tx := &mockTxRepo{
		mock:        m,
		staged:      make(map[uuid.UUID]Invoice),
		stagedLines: make(map[uuid.UUID][]InvoiceLine),
		statuses:    make(map[uuid.UUID]InvoiceStatus),
	}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	for id, inv := range tx.staged {
		m.invoices[id] = inv
	}
	for id, lines := range tx.stagedLines {
		m.lines[id] = lines
	}
	for id, status := range tx.statuses {
		inv := m.invoices[id]
		inv.Status = status
		m.invoices[id] = inv
	}
	for _, id := range tx.deleted {
		delete(m.invoices, id)
		delete(m.lines, id)
	}
	return nil
}

type mockTxRepo struct {
	mock        *mockRepository
	staged      map[uuid.UUID]Invoice
	stagedLines map[uuid.UUID][]InvoiceLine
	statuses    map[uuid.UUID]InvoiceStatus
	deleted     []uuid.UUID
}

func (t *mockTxRepo) NextNumber(ctx context.Context, companyID uuid.UUID) (string, error) {
	t.mock.counters[companyID]++
	return fmt.Sprintf("%09d", t.mock.counters[companyID]), nil
}

func (t *mockTxRepo) InsertInvoice(ctx context.Context, inv Invoice) error {
	if t.mock.insertErr != nil {
		return t.mock.insertErr
	}
	t.staged[inv.ID] = inv
	return nil
}

func (t *mockTxRepo) InsertLines(ctx context.Context, invoiceID uuid.UUID, lines []InvoiceLine) error {
	t.stagedLines[invoiceID] = lines
	return nil
}

func (t *mockTxRepo) GetForUpdate(ctx context.Context, companyID, invoiceID uuid.UUID) (Invoice, error) {
	return t.mock.Get(ctx, companyID, invoiceID)
}

func (t *mockTxRepo) UpdateStatus(ctx context.Context, companyID, invoiceID uuid.UUID, status InvoiceStatus) error {
	t.statuses[invoiceID] = status
	return nil
}

func (t *mockTxRepo) DeleteInvoice(ctx context.Context, companyID, invoiceID uuid.UUID) error {
	t.deleted = append(t.deleted, invoiceID)
	return nil
}

type mockCustomers struct {
	customers map[uuid.UUID]customers.Customer
}

func (m *mockCustomers) List(ctx context.Context, companyID uuid.UUID) ([]customers.Customer, error) {
	return nil, nil
}

func (m *mockCustomers) Get(ctx context.Context, companyID, id uuid.UUID) (customers.Customer, error) {
	c, ok := m.customers[id]
	if !ok || c.CompanyID != companyID {
		return customers.Customer{}, customers.ErrNotFound
	}
	return c, nil
}

func (m *mockCustomers) Insert(ctx context.Context, c customers.Customer) error { return nil }
func (m *mockCustomers) Update(ctx context.Context, c customers.Customer) error { return nil }
func (m *mockCustomers) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	return nil
}

type mockProducts struct {
	products map[uuid.UUID]products.Product
}

func (m *mockProducts) List(ctx context.Context, companyID uuid.UUID) ([]products.Product, error) {
	return nil, nil
}

func (m *mockProducts) Get(ctx context.Context, companyID, id uuid.UUID) (products.Product, error) {
	p, ok := m.products[id]
	if !ok || p.CompanyID != companyID {
		return products.Product{}, products.ErrNotFound
	}
	return p, nil
}

func (m *mockProducts) GetMany(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) ([]products.Product, error) {
	var out []products.Product
	for _, id := range ids {
		if p, ok := m.products[id]; ok && p.CompanyID == companyID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockProducts) Insert(ctx context.Context, p products.Product) error { return nil }
func (m *mockProducts) Update(ctx context.Context, p products.Product) error { return nil }
func (m *mockProducts) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	return nil
}

type mockEnqueuer struct {
	enqueued []uuid.UUID
	err      error
}

func (m *mockEnqueuer) EnqueueInvoiceJournalize(ctx context.Context, companyID, invoiceID uuid.UUID) error {
	if m.err != nil {
		return m.err
	}
	m.enqueued = append(m.enqueued, invoiceID)
	return nil
}

type fixture struct {
	svc      *Service
	repo     *mockRepository
	enqueuer *mockEnqueuer

	companyID  uuid.UUID
	customerID uuid.UUID
	taxedID    uuid.UUID
	exemptID   uuid.UUID
}

func newFixture() *fixture {
	f := &fixture{
		repo:       newMockRepository(),
		enqueuer:   &mockEnqueuer{},
		companyID:  uuid.New(),
		customerID: uuid.New(),
		taxedID:    uuid.New(),
		exemptID:   uuid.New(),
	}
	custRepo := &mockCustomers{customers: map[uuid.UUID]customers.Customer{
		f.customerID: {ID: f.customerID, CompanyID: f.companyID, Name: "Comercial Andina"},
	}}
	prodRepo := &mockProducts{products: map[uuid.UUID]products.Product{
		f.taxedID:  {ID: f.taxedID, CompanyID: f.companyID, Code: "P-001", Name: "Servicio técnico", Price: 100, IVA: true, Active: true},
		f.exemptID: {ID: f.exemptID, CompanyID: f.companyID, Code: "P-002", Name: "Libro", Price: 20, Active: true},
	}}
	logger := slog.New(slog.NewTextHandler(testWriter{}, nil))
	f.svc = NewService(logger, f.repo, custRepo, prodRepo, f.enqueuer)
	return f
}

type testWriter struct{}

func (testWriter) Write(p []byte) (int, error) { return len(p), nil }

func testDate() time.Time {
	return time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
}

func TestCreateComputesTotalsFromCatalog(t *testing.T) {
	f := newFixture()
	inv, err := f.svc.Create(context.Background(), f.companyID, InvoiceInput{
		CustomerID: f.customerID,
		Date:       testDate(),
		Lines: []InvoiceLineInput{
			{ProductID: f.taxedID, Quantity: 2},
			{ProductID: f.exemptID, Quantity: 1},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "000000001", inv.Number)
	assert.Equal(t, InvoiceStatusPending, inv.Status)
	assert.Equal(t, 220.0, inv.Subtotal)
	assert.Equal(t, 30.0, inv.IVA)
	assert.Equal(t, 250.0, inv.Total)
	require.Len(t, inv.Lines, 2)
	assert.Equal(t, 100.0, inv.Lines[0].UnitPrice)
}

func TestCreateAppliesDiscountBeforeTax(t *testing.T) {
	f := newFixture()
	inv, err := f.svc.Create(context.Background(), f.companyID, InvoiceInput{
		CustomerID: f.customerID,
		Date:       testDate(),
		Lines: []InvoiceLineInput{
			{ProductID: f.taxedID, Quantity: 2, DiscountPercent: 10},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 200.0, inv.Subtotal)
	assert.Equal(t, 20.0, inv.Discount)
	assert.Equal(t, 180.0, inv.TaxableBase)
	assert.Equal(t, 27.0, inv.IVA)
	assert.Equal(t, 207.0, inv.Total)
}

func TestCreateRejectsUnknownCustomerOrProduct(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Create(context.Background(), f.companyID, InvoiceInput{
		CustomerID: uuid.New(),
		Date:       testDate(),
		Lines:      []InvoiceLineInput{{ProductID: f.taxedID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrCustomerNotFound)

	_, err = f.svc.Create(context.Background(), f.companyID, InvoiceInput{
		CustomerID: f.customerID,
		Date:       testDate(),
		Lines:      []InvoiceLineInput{{ProductID: uuid.New(), Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCreateValidatesLines(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Create(context.Background(), f.companyID, InvoiceInput{
		CustomerID: f.customerID,
		Date:       testDate(),
	})
	assert.ErrorIs(t, err, ErrNoLines)

	_, err = f.svc.Create(context.Background(), f.companyID, InvoiceInput{
		CustomerID: f.customerID,
		Date:       testDate(),
		Lines:      []InvoiceLineInput{{ProductID: f.taxedID, Quantity: -1}},
	})
	assert.ErrorIs(t, err, ErrInvalidLine)
}

func TestIssueEnqueuesJournalization(t *testing.T) {
	f := newFixture()
	inv, err := f.svc.Create(context.Background(), f.companyID, InvoiceInput{
		CustomerID: f.customerID,
		Date:       testDate(),
		Lines:      []InvoiceLineInput{{ProductID: f.taxedID, Quantity: 1}},
	})
	require.NoError(t, err)

	issued, err := f.svc.Issue(context.Background(), f.companyID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, InvoiceStatusIssued, issued.Status)
	require.Len(t, f.enqueuer.enqueued, 1)
	assert.Equal(t, inv.ID, f.enqueuer.enqueued[0])

	// Issuing again is rejected and nothing new is enqueued.
	_, err = f.svc.Issue(context.Background(), f.companyID, inv.ID)
	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.Len(t, f.enqueuer.enqueued, 1)
}

func TestVoidRequiresIssuedInvoice(t *testing.T) {
	f := newFixture()
	inv, err := f.svc.Create(context.Background(), f.companyID, InvoiceInput{
		CustomerID: f.customerID,
		Date:       testDate(),
		Lines:      []InvoiceLineInput{{ProductID: f.taxedID, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = f.svc.Void(context.Background(), f.companyID, inv.ID)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = f.svc.Issue(context.Background(), f.companyID, inv.ID)
	require.NoError(t, err)
	voided, err := f.svc.Void(context.Background(), f.companyID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, InvoiceStatusVoided, voided.Status)
}

func TestDeleteOnlyPendingInvoices(t *testing.T) {
	f := newFixture()
	inv, err := f.svc.Create(context.Background(), f.companyID, InvoiceInput{
		CustomerID: f.customerID,
		Date:       testDate(),
		Lines:      []InvoiceLineInput{{ProductID: f.taxedID, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = f.svc.Issue(context.Background(), f.companyID, inv.ID)
	require.NoError(t, err)
	err = f.svc.Delete(context.Background(), f.companyID, inv.ID)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	pending, err := f.svc.Create(context.Background(), f.companyID, InvoiceInput{
		CustomerID: f.customerID,
		Date:       testDate(),
		Lines:      []InvoiceLineInput{{ProductID: f.taxedID, Quantity: 1}},
	})
	require.NoError(t, err)
	require.NoError(t, f.svc.Delete(context.Background(), f.companyID, pending.ID))
	_, err = f.svc.Get(context.Background(), f.companyID, pending.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
