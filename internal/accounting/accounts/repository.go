package accounts

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quipu-erp/quipu/internal/accounting/shared"
	"github.com/quipu-erp/quipu/internal/platform/db"
)

// Repository encapsulates DB operations for the chart of accounts.
// Every query carries the company filter.
type Repository interface {
	List(ctx context.Context, companyID uuid.UUID) ([]Account, error)
	ListMovement(ctx context.Context, companyID uuid.UUID) ([]Account, error)
	Get(ctx context.Context, companyID, id uuid.UUID) (Account, error)
	Insert(ctx context.Context, a Account) error
	Update(ctx context.Context, a Account) error
	Delete(ctx context.Context, companyID, id uuid.UUID) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const accountColumns = `id, company_id, code, name, type, level, parent_id, accepts_movement, active, created_at, updated_at`

func scanAccount(row pgx.Row) (Account, error) {
	var a Account
	err := row.Scan(&a.ID, &a.CompanyID, &a.Code, &a.Name, &a.Type, &a.Level, &a.ParentID, &a.AcceptsMovement, &a.Active, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func (r *repository) List(ctx context.Context, companyID uuid.UUID) ([]Account, error) {
	rows, err := r.db.Query(ctx, `SELECT `+accountColumns+` FROM accounts WHERE company_id=$1 ORDER BY code ASC`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	accounts, err := collect(rows)
	if err != nil {
		return nil, err
	}
	annotateParents(accounts)
	return accounts, nil
}

func (r *repository) ListMovement(ctx context.Context, companyID uuid.UUID) ([]Account, error) {
	rows, err := r.db.Query(ctx, `SELECT `+accountColumns+` FROM accounts
WHERE company_id=$1 AND accepts_movement AND active ORDER BY code ASC`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func (r *repository) Get(ctx context.Context, companyID, id uuid.UUID) (Account, error) {
	a, err := scanAccount(r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts
WHERE company_id=$1 AND id=$2`, companyID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, shared.ErrAccountNotFound
		}
		return Account{}, err
	}
	return a, nil
}

func (r *repository) Insert(ctx context.Context, a Account) error {
	_, err := r.db.Exec(ctx, `INSERT INTO accounts (id, company_id, code, name, type, level, parent_id, accepts_movement, active)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`, a.ID, a.CompanyID, a.Code, a.Name, a.Type, a.Level, a.ParentID, a.AcceptsMovement, a.Active)
	return mapDuplicate(err)
}

func (r *repository) Update(ctx context.Context, a Account) error {
	cmd, err := r.db.Exec(ctx, `UPDATE accounts SET code=$3, name=$4, type=$5, level=$6, parent_id=$7, accepts_movement=$8, active=$9, updated_at=NOW()
WHERE company_id=$1 AND id=$2`, a.CompanyID, a.ID, a.Code, a.Name, a.Type, a.Level, a.ParentID, a.AcceptsMovement, a.Active)
	if err != nil {
		return mapDuplicate(err)
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrAccountNotFound
	}
	return nil
}

// Delete removes an account unless journal lines reference it. The
// reference check and the delete run in one transaction so a concurrent
// posting cannot slip between them.
func (r *repository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	return db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		var refs int
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM journal_lines WHERE account_id=$1`, id).Scan(&refs); err != nil {
			return err
		}
		if refs > 0 {
			return shared.ErrAccountInUse
		}
		cmd, err := tx.Exec(ctx, `DELETE FROM accounts WHERE company_id=$1 AND id=$2`, companyID, id)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return shared.ErrAccountNotFound
		}
		return nil
	})
}

func collect(rows pgx.Rows) ([]Account, error) {
	var accounts []Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// annotateParents resolves weak parent links within the fetched set so
// callers can indent the hierarchy without extra queries.
func annotateParents(accounts []Account) {
	byID := make(map[uuid.UUID]*Account, len(accounts))
	for i := range accounts {
		byID[accounts[i].ID] = &accounts[i]
	}
	for i := range accounts {
		if accounts[i].ParentID == nil {
			continue
		}
		if parent, ok := byID[*accounts[i].ParentID]; ok {
			cp := *parent
			cp.Parent = nil
			accounts[i].Parent = &cp
		}
	}
}

func mapDuplicate(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return shared.ErrDuplicateCode
	}
	return err
}
