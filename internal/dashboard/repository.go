package dashboard

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository runs the read-only stat queries behind the dashboard.
type Repository interface {
	CountCustomers(ctx context.Context, companyID uuid.UUID) (int64, error)
	CountProducts(ctx context.Context, companyID uuid.UUID) (int64, error)
	CountInvoicesByStatus(ctx context.Context, companyID uuid.UUID, status string) (int64, error)
	CountEntries(ctx context.Context, companyID uuid.UUID) (int64, error)
	MonthlySales(ctx context.Context, companyID uuid.UUID, from, to time.Time) (float64, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) CountCustomers(ctx context.Context, companyID uuid.UUID) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM customers WHERE company_id=$1`, companyID)
}

func (r *repository) CountProducts(ctx context.Context, companyID uuid.UUID) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM products WHERE company_id=$1 AND active`, companyID)
}

func (r *repository) CountInvoicesByStatus(ctx context.Context, companyID uuid.UUID, status string) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM invoices WHERE company_id=$1 AND status=$2`, companyID, status).Scan(&n)
	return n, err
}

func (r *repository) CountEntries(ctx context.Context, companyID uuid.UUID) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM journal_entries WHERE company_id=$1`, companyID)
}

// MonthlySales sums issued invoice totals inside the window. Voided
// and pending invoices do not count as sales.
func (r *repository) MonthlySales(ctx context.Context, companyID uuid.UUID, from, to time.Time) (float64, error) {
	var total float64
	err := r.db.QueryRow(ctx, `SELECT COALESCE(SUM(total), 0) FROM invoices
WHERE company_id=$1 AND status='EMITIDA' AND date >= $2 AND date < $3`, companyID, from, to).Scan(&total)
	return total, err
}

func (r *repository) count(ctx context.Context, query string, companyID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, query, companyID).Scan(&n)
	return n, err
}
