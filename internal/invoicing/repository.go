package invoicing

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quipu-erp/quipu/internal/catalog/customers"
	"github.com/quipu-erp/quipu/internal/catalog/products"
)

// Repository encapsulates DB operations for invoices.
type Repository interface {
	List(ctx context.Context, companyID uuid.UUID) ([]Invoice, error)
	Get(ctx context.Context, companyID, invoiceID uuid.UUID) (Invoice, error)
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository exposes methods available within a transaction. The
// invoice number is drawn from the same transaction that persists the
// invoice, so a rollback returns the number with it.
type TxRepository interface {
	NextNumber(ctx context.Context, companyID uuid.UUID) (string, error)
	InsertInvoice(ctx context.Context, inv Invoice) error
	InsertLines(ctx context.Context, invoiceID uuid.UUID, lines []InvoiceLine) error
	GetForUpdate(ctx context.Context, companyID, invoiceID uuid.UUID) (Invoice, error)
	UpdateStatus(ctx context.Context, companyID, invoiceID uuid.UUID, status InvoiceStatus) error
	DeleteInvoice(ctx context.Context, companyID, invoiceID uuid.UUID) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const invoiceColumns = `id, company_id, customer_id, number, date, notes, status, subtotal, discount, taxable_base, iva, ice, total, created_at, updated_at`

func scanInvoice(row pgx.Row) (Invoice, error) {
	var inv Invoice
	err := row.Scan(&inv.ID, &inv.CompanyID, &inv.CustomerID, &inv.Number, &inv.Date, &inv.Notes, &inv.Status,
		&inv.Subtotal, &inv.Discount, &inv.TaxableBase, &inv.IVA, &inv.ICE, &inv.Total, &inv.CreatedAt, &inv.UpdatedAt)
	return inv, err
}

func (r *repository) List(ctx context.Context, companyID uuid.UUID) ([]Invoice, error) {
	rows, err := r.db.Query(ctx, `SELECT `+invoiceColumns+` FROM invoices
WHERE company_id=$1 ORDER BY date DESC, number DESC`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var invoices []Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range invoices {
		if err := r.annotate(ctx, &invoices[i]); err != nil {
			return nil, err
		}
	}
	return invoices, nil
}

func (r *repository) Get(ctx context.Context, companyID, invoiceID uuid.UUID) (Invoice, error) {
	inv, err := scanInvoice(r.db.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices
WHERE company_id=$1 AND id=$2`, companyID, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Invoice{}, ErrNotFound
		}
		return Invoice{}, err
	}
	if err := r.annotate(ctx, &inv); err != nil {
		return Invoice{}, err
	}
	return inv, nil
}

// annotate loads the customer and the lines with their products.
func (r *repository) annotate(ctx context.Context, inv *Invoice) error {
	var cust customers.Customer
	err := r.db.QueryRow(ctx, `SELECT id, company_id, identification, name, email, phone, address, created_at, updated_at
FROM customers WHERE id=$1`, inv.CustomerID).
		Scan(&cust.ID, &cust.CompanyID, &cust.Identification, &cust.Name, &cust.Email, &cust.Phone, &cust.Address, &cust.CreatedAt, &cust.UpdatedAt)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	if err == nil {
		inv.Customer = &cust
	}

	rows, err := r.db.Query(ctx, `SELECT l.id, l.invoice_id, l.product_id, l.quantity, l.unit_price, l.discount_percent, l.subtotal, l.iva, l.ice, l.total,
p.id, p.company_id, p.code, p.name, p.description, p.price, p.iva, p.ice, p.active, p.created_at, p.updated_at
FROM invoice_lines l JOIN products p ON p.id = l.product_id
WHERE l.invoice_id=$1 ORDER BY l.position ASC`, inv.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	var lines []InvoiceLine
	for rows.Next() {
		var line InvoiceLine
		var prod products.Product
		if err := rows.Scan(&line.ID, &line.InvoiceID, &line.ProductID, &line.Quantity, &line.UnitPrice, &line.DiscountPercent, &line.Subtotal, &line.IVA, &line.ICE, &line.Total,
			&prod.ID, &prod.CompanyID, &prod.Code, &prod.Name, &prod.Description, &prod.Price, &prod.IVA, &prod.ICE, &prod.Active, &prod.CreatedAt, &prod.UpdatedAt); err != nil {
			return err
		}
		line.Product = &prod
		lines = append(lines, line)
	}
	inv.Lines = lines
	return rows.Err()
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return err
	}
	wrapper := &txRepository{tx: tx}
	if err := fn(ctx, wrapper); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

type txRepository struct {
	tx pgx.Tx
}

// NextNumber bumps the per-company invoice counter and renders the
// nine-digit sequential required on the printed document.
func (r *txRepository) NextNumber(ctx context.Context, companyID uuid.UUID) (string, error) {
	var value int64
	err := r.tx.QueryRow(ctx, `INSERT INTO invoice_counters (company_id, value) VALUES ($1, 1)
ON CONFLICT (company_id) DO UPDATE SET value = invoice_counters.value + 1
RETURNING value`, companyID).Scan(&value)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%09d", value), nil
}

func (r *txRepository) InsertInvoice(ctx context.Context, inv Invoice) error {
	_, err := r.tx.Exec(ctx, `INSERT INTO invoices (id, company_id, customer_id, number, date, notes, status, subtotal, discount, taxable_base, iva, ice, total)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		inv.ID, inv.CompanyID, inv.CustomerID, inv.Number, inv.Date, inv.Notes, inv.Status,
		toNumeric(inv.Subtotal), toNumeric(inv.Discount), toNumeric(inv.TaxableBase), toNumeric(inv.IVA), toNumeric(inv.ICE), toNumeric(inv.Total))
	return err
}

func (r *txRepository) InsertLines(ctx context.Context, invoiceID uuid.UUID, lines []InvoiceLine) error {
	for idx, line := range lines {
		if _, err := r.tx.Exec(ctx, `INSERT INTO invoice_lines (id, invoice_id, product_id, quantity, unit_price, discount_percent, subtotal, iva, ice, total, position)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
			uuid.New(), invoiceID, line.ProductID, line.Quantity, toNumeric(line.UnitPrice), toNumeric(line.DiscountPercent),
			toNumeric(line.Subtotal), toNumeric(line.IVA), toNumeric(line.ICE), toNumeric(line.Total), idx); err != nil {
			return err
		}
	}
	return nil
}

func (r *txRepository) GetForUpdate(ctx context.Context, companyID, invoiceID uuid.UUID) (Invoice, error) {
	inv, err := scanInvoice(r.tx.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices
WHERE company_id=$1 AND id=$2 FOR UPDATE`, companyID, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Invoice{}, ErrNotFound
		}
		return Invoice{}, err
	}
	return inv, nil
}

func (r *txRepository) UpdateStatus(ctx context.Context, companyID, invoiceID uuid.UUID, status InvoiceStatus) error {
	cmd, err := r.tx.Exec(ctx, `UPDATE invoices SET status=$3, updated_at=NOW()
WHERE company_id=$1 AND id=$2`, companyID, invoiceID, status)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *txRepository) DeleteInvoice(ctx context.Context, companyID, invoiceID uuid.UUID) error {
	if _, err := r.tx.Exec(ctx, `DELETE FROM invoice_lines WHERE invoice_id=$1`, invoiceID); err != nil {
		return err
	}
	cmd, err := r.tx.Exec(ctx, `DELETE FROM invoices WHERE company_id=$1 AND id=$2`, companyID, invoiceID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func toNumeric(v float64) any {
	return fmt.Sprintf("%.2f", v)
}
