package tenant

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrCompanyNotFound indicates the user has no company record yet.
var ErrCompanyNotFound = errors.New("tenant: empresa no encontrada")

// Repository resolves company records for authenticated users.
type Repository interface {
	FindByUser(ctx context.Context, userID uuid.UUID) (Company, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) FindByUser(ctx context.Context, userID uuid.UUID) (Company, error) {
	var c Company
	err := r.db.QueryRow(ctx, `SELECT id, user_id, name, ruc, address, phone, email, created_at, updated_at
FROM companies WHERE user_id=$1`, userID).
		Scan(&c.ID, &c.UserID, &c.Name, &c.RUC, &c.Address, &c.Phone, &c.Email, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Company{}, ErrCompanyNotFound
		}
		return Company{}, err
	}
	return c, nil
}
