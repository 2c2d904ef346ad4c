package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quipu-erp/quipu/internal/platform/db"
	"github.com/quipu-erp/quipu/internal/shared"
	"github.com/quipu-erp/quipu/internal/tenant"
)

// ErrEmailTaken indicates a registration conflict on the email column.
var ErrEmailTaken = errors.New("auth: el correo ya está registrado")

// Repository defines persistence operations for the auth module.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	// CreateUserWithCompany persists the user and their company as one unit.
	CreateUserWithCompany(ctx context.Context, user User, company tenant.Company) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// FindByEmail fetches a user by email.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.pool.QueryRow(ctx, `SELECT id, email, password_hash, is_active, created_at, updated_at
FROM users WHERE email=$1`, email).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// CreateUserWithCompany inserts the user record and the company it owns
// inside a single transaction. Registration never leaves a user without
// a company scope.
func (r *PGRepository) CreateUserWithCompany(ctx context.Context, user User, company tenant.Company) error {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `INSERT INTO users (id, email, password_hash, is_active)
VALUES ($1,$2,$3,true)`, user.ID, user.Email, user.PasswordHash); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `INSERT INTO companies (id, user_id, name, ruc, address, phone, email)
VALUES ($1,$2,$3,$4,$5,$6,$7)`, company.ID, user.ID, company.Name, company.RUC, company.Address, company.Phone, company.Email)
		return err
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

var _ Repository = (*PGRepository)(nil)
