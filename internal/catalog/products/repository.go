package products

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound indicates the product does not exist in this company.
	ErrNotFound = errors.New("productos: producto no encontrado")
	// ErrDuplicateCode indicates a product code collision.
	ErrDuplicateCode = errors.New("productos: el código ya existe")
)

type Repository interface {
	List(ctx context.Context, companyID uuid.UUID) ([]Product, error)
	Get(ctx context.Context, companyID, id uuid.UUID) (Product, error)
	GetMany(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) ([]Product, error)
	Insert(ctx context.Context, p Product) error
	Update(ctx context.Context, p Product) error
	Delete(ctx context.Context, companyID, id uuid.UUID) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const columns = `id, company_id, code, name, description, price, iva, ice, active, created_at, updated_at`

func scan(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.CompanyID, &p.Code, &p.Name, &p.Description, &p.Price, &p.IVA, &p.ICE, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *repository) List(ctx context.Context, companyID uuid.UUID) ([]Product, error) {
	rows, err := r.db.Query(ctx, `SELECT `+columns+` FROM products WHERE company_id=$1 ORDER BY code ASC`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func (r *repository) Get(ctx context.Context, companyID, id uuid.UUID) (Product, error) {
	p, err := scan(r.db.QueryRow(ctx, `SELECT `+columns+` FROM products WHERE company_id=$1 AND id=$2`, companyID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}
	return p, nil
}

func (r *repository) GetMany(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) ([]Product, error) {
	rows, err := r.db.Query(ctx, `SELECT `+columns+` FROM products WHERE company_id=$1 AND id = ANY($2)`, companyID, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func (r *repository) Insert(ctx context.Context, p Product) error {
	_, err := r.db.Exec(ctx, `INSERT INTO products (id, company_id, code, name, description, price, iva, ice, active)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`, p.ID, p.CompanyID, p.Code, p.Name, p.Description, p.Price, p.IVA, p.ICE, p.Active)
	return mapDuplicate(err)
}

func (r *repository) Update(ctx context.Context, p Product) error {
	cmd, err := r.db.Exec(ctx, `UPDATE products SET code=$3, name=$4, description=$5, price=$6, iva=$7, ice=$8, active=$9, updated_at=NOW()
WHERE company_id=$1 AND id=$2`, p.CompanyID, p.ID, p.Code, p.Name, p.Description, p.Price, p.IVA, p.ICE, p.Active)
	if err != nil {
		return mapDuplicate(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM products WHERE company_id=$1 AND id=$2`, companyID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func collect(rows pgx.Rows) ([]Product, error) {
	var out []Product
	for rows.Next() {
		p, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func mapDuplicate(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateCode
	}
	return err
}
