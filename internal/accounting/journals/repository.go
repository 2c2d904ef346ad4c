package journals

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quipu-erp/quipu/internal/accounting/accounts"
	"github.com/quipu-erp/quipu/internal/accounting/shared"
)

// Repository encapsulates DB operations for journal entries.
type Repository interface {
	List(ctx context.Context, companyID uuid.UUID) ([]JournalEntry, error)
	Get(ctx context.Context, companyID, entryID uuid.UUID) (JournalEntry, error)
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository exposes methods available within a transaction. Number
// allocation and entry persistence share the transaction so an aborted
// create rolls the counter back with it.
type TxRepository interface {
	NextNumber(ctx context.Context, companyID uuid.UUID) (string, error)
	CountCompanyAccounts(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) (int, error)
	InsertEntry(ctx context.Context, entry JournalEntry) error
	InsertLines(ctx context.Context, entryID uuid.UUID, lines []EntryLineInput) error
	GetForUpdate(ctx context.Context, companyID, entryID uuid.UUID) (JournalEntry, error)
	UpdateStatus(ctx context.Context, companyID, entryID uuid.UUID, status EntryStatus) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const entryColumns = `id, company_id, number, date, description, type, status, invoice_id, created_at, updated_at`

func scanEntry(row pgx.Row) (JournalEntry, error) {
	var e JournalEntry
	err := row.Scan(&e.ID, &e.CompanyID, &e.Number, &e.Date, &e.Description, &e.Type, &e.Status, &e.InvoiceID, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func (r *repository) List(ctx context.Context, companyID uuid.UUID) ([]JournalEntry, error) {
	rows, err := r.db.Query(ctx, `SELECT `+entryColumns+` FROM journal_entries
WHERE company_id=$1 ORDER BY date DESC, number DESC`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []JournalEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range entries {
		lines, err := r.linesFor(ctx, entries[i].ID)
		if err != nil {
			return nil, err
		}
		entries[i].Lines = lines
	}
	return entries, nil
}

func (r *repository) Get(ctx context.Context, companyID, entryID uuid.UUID) (JournalEntry, error) {
	entry, err := scanEntry(r.db.QueryRow(ctx, `SELECT `+entryColumns+` FROM journal_entries
WHERE company_id=$1 AND id=$2`, companyID, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return JournalEntry{}, shared.ErrEntryNotFound
		}
		return JournalEntry{}, err
	}
	entry.Lines, err = r.linesFor(ctx, entry.ID)
	if err != nil {
		return JournalEntry{}, err
	}
	if entry.InvoiceID != nil {
		ref, err := r.invoiceRef(ctx, companyID, *entry.InvoiceID)
		if err != nil {
			return JournalEntry{}, err
		}
		entry.Invoice = ref
	}
	return entry, nil
}

// linesFor loads the lines of one entry with their accounts annotated.
func (r *repository) linesFor(ctx context.Context, entryID uuid.UUID) ([]JournalLine, error) {
	rows, err := r.db.Query(ctx, `SELECT l.id, l.entry_id, l.account_id, l.description, l.debit, l.credit,
a.id, a.company_id, a.code, a.name, a.type, a.level, a.parent_id, a.accepts_movement, a.active, a.created_at, a.updated_at
FROM journal_lines l JOIN accounts a ON a.id = l.account_id
WHERE l.entry_id=$1 ORDER BY l.position ASC`, entryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var lines []JournalLine
	for rows.Next() {
		var line JournalLine
		var acc accounts.Account
		if err := rows.Scan(&line.ID, &line.EntryID, &line.AccountID, &line.Description, &line.Debit, &line.Credit,
			&acc.ID, &acc.CompanyID, &acc.Code, &acc.Name, &acc.Type, &acc.Level, &acc.ParentID, &acc.AcceptsMovement, &acc.Active, &acc.CreatedAt, &acc.UpdatedAt); err != nil {
			return nil, err
		}
		line.Account = &acc
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func (r *repository) invoiceRef(ctx context.Context, companyID, invoiceID uuid.UUID) (*InvoiceRef, error) {
	var ref InvoiceRef
	err := r.db.QueryRow(ctx, `SELECT i.id, i.number, i.total, c.id, c.name
FROM invoices i JOIN customers c ON c.id = i.customer_id
WHERE i.company_id=$1 AND i.id=$2`, companyID, invoiceID).
		Scan(&ref.ID, &ref.Number, &ref.Total, &ref.CustomerID, &ref.CustomerName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &ref, nil
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

// NextNumber bumps the per-company counter atomically and formats the
// display number. The upsert serializes concurrent creates on the
// counter row, so no two entries can draw the same value.
func (r *txRepository) NextNumber(ctx context.Context, companyID uuid.UUID) (string, error) {
	var value int64
	err := r.tx.QueryRow(ctx, `INSERT INTO entry_counters (company_id, value) VALUES ($1, 1)
ON CONFLICT (company_id) DO UPDATE SET value = entry_counters.value + 1
RETURNING value`, companyID).Scan(&value)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("ASI-%06d", value), nil
}

func (r *txRepository) CountCompanyAccounts(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) (int, error) {
	var count int
	err := r.tx.QueryRow(ctx, `SELECT COUNT(DISTINCT id) FROM accounts WHERE company_id=$1 AND id = ANY($2)`, companyID, ids).Scan(&count)
	return count, err
}

func (r *txRepository) InsertEntry(ctx context.Context, entry JournalEntry) error {
	_, err := r.tx.Exec(ctx, `INSERT INTO journal_entries (id, company_id, number, date, description, type, status, invoice_id)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`, entry.ID, entry.CompanyID, entry.Number, entry.Date, entry.Description, entry.Type, entry.Status, entry.InvoiceID)
	return err
}

func (r *txRepository) InsertLines(ctx context.Context, entryID uuid.UUID, lines []EntryLineInput) error {
	for idx, line := range lines {
		if _, err := r.tx.Exec(ctx, `INSERT INTO journal_lines (id, entry_id, account_id, description, debit, credit, position)
VALUES ($1,$2,$3,$4,$5,$6,$7)`, uuid.New(), entryID, line.AccountID, line.Description, toNumeric(line.Debit), toNumeric(line.Credit), idx); err != nil {
			return err
		}
	}
	return nil
}

func (r *txRepository) GetForUpdate(ctx context.Context, companyID, entryID uuid.UUID) (JournalEntry, error) {
	entry, err := scanEntry(r.tx.QueryRow(ctx, `SELECT `+entryColumns+` FROM journal_entries
WHERE company_id=$1 AND id=$2 FOR UPDATE`, companyID, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return JournalEntry{}, shared.ErrEntryNotFound
		}
		return JournalEntry{}, err
	}
	return entry, nil
}

func (r *txRepository) UpdateStatus(ctx context.Context, companyID, entryID uuid.UUID, status EntryStatus) error {
	cmd, err := r.tx.Exec(ctx, `UPDATE journal_entries SET status=$3, updated_at=NOW()
WHERE company_id=$1 AND id=$2`, companyID, entryID, status)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrEntryNotFound
	}
	return nil
}

func toNumeric(v float64) any {
	return fmt.Sprintf("%.2f", v)
}
