package customers

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound indicates the customer does not exist in this company.
	ErrNotFound = errors.New("clientes: cliente no encontrado")
	// ErrDuplicateIdentification indicates a RUC/cédula collision.
	ErrDuplicateIdentification = errors.New("clientes: la identificación ya está registrada")
)

type Repository interface {
	List(ctx context.Context, companyID uuid.UUID) ([]Customer, error)
	Get(ctx context.Context, companyID, id uuid.UUID) (Customer, error)
	Insert(ctx context.Context, c Customer) error
	Update(ctx context.Context, c Customer) error
	Delete(ctx context.Context, companyID, id uuid.UUID) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const columns = `id, company_id, identification, name, email, phone, address, created_at, updated_at`

func scan(row pgx.Row) (Customer, error) {
	var c Customer
	err := row.Scan(&c.ID, &c.CompanyID, &c.Identification, &c.Name, &c.Email, &c.Phone, &c.Address, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *repository) List(ctx context.Context, companyID uuid.UUID) ([]Customer, error) {
	rows, err := r.db.Query(ctx, `SELECT `+columns+` FROM customers WHERE company_id=$1 ORDER BY name ASC`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Customer
	for rows.Next() {
		c, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *repository) Get(ctx context.Context, companyID, id uuid.UUID) (Customer, error) {
	c, err := scan(r.db.QueryRow(ctx, `SELECT `+columns+` FROM customers WHERE company_id=$1 AND id=$2`, companyID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Customer{}, ErrNotFound
		}
		return Customer{}, err
	}
	return c, nil
}

func (r *repository) Insert(ctx context.Context, c Customer) error {
	_, err := r.db.Exec(ctx, `INSERT INTO customers (id, company_id, identification, name, email, phone, address)
VALUES ($1,$2,$3,$4,$5,$6,$7)`, c.ID, c.CompanyID, c.Identification, c.Name, c.Email, c.Phone, c.Address)
	return mapDuplicate(err)
}

func (r *repository) Update(ctx context.Context, c Customer) error {
	cmd, err := r.db.Exec(ctx, `UPDATE customers SET identification=$3, name=$4, email=$5, phone=$6, address=$7, updated_at=NOW()
WHERE company_id=$1 AND id=$2`, c.CompanyID, c.ID, c.Identification, c.Name, c.Email, c.Phone, c.Address)
	if err != nil {
		return mapDuplicate(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM customers WHERE company_id=$1 AND id=$2`, companyID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func mapDuplicate(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateIdentification
	}
	return err
}
