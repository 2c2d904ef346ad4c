package mappings

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quipu-erp/quipu/internal/accounting/shared"
)

type Repository interface {
	List(ctx context.Context, companyID uuid.UUID) ([]AccountMapping, error)
	Get(ctx context.Context, companyID uuid.UUID, role Role) (AccountMapping, error)
	Set(ctx context.Context, mapping AccountMapping) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, companyID uuid.UUID) ([]AccountMapping, error) {
	rows, err := r.db.Query(ctx, `SELECT company_id, role, account_id, created_at, updated_at
FROM account_mappings WHERE company_id=$1 ORDER BY role`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []AccountMapping
	for rows.Next() {
		var m AccountMapping
		if err := rows.Scan(&m.CompanyID, &m.Role, &m.AccountID, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Get resolves the account mapped to a role for the company.
func (r *repository) Get(ctx context.Context, companyID uuid.UUID, role Role) (AccountMapping, error) {
	var mapping AccountMapping
	err := r.db.QueryRow(ctx, `SELECT company_id, role, account_id, created_at, updated_at
FROM account_mappings WHERE company_id=$1 AND role=$2`, companyID, role).
		Scan(&mapping.CompanyID, &mapping.Role, &mapping.AccountID, &mapping.CreatedAt, &mapping.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return AccountMapping{}, shared.ErrMappingNotFound
		}
		return AccountMapping{}, err
	}
	return mapping, nil
}

// Set upserts the mapping for one role.
func (r *repository) Set(ctx context.Context, mapping AccountMapping) error {
	_, err := r.db.Exec(ctx, `INSERT INTO account_mappings (company_id, role, account_id)
VALUES ($1,$2,$3)
ON CONFLICT (company_id, role) DO UPDATE SET account_id = EXCLUDED.account_id, updated_at = NOW()`,
		mapping.CompanyID, mapping.Role, mapping.AccountID)
	return err
}
