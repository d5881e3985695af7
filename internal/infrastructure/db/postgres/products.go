package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lumenpaints/erp-backend/internal/core/domain"
)

const productColumns = `id::text, name, category, price, quantity, min_quantity,
	description, batches, created_by, created_at, updated_by, updated_at`

// ProductRepository persists catalog items in the products table.
type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// List returns all products, newest first.
func (r *ProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx,
		`select `+productColumns+` from products order by created_at desc`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("list products: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// Insert writes a new product and returns the stored row with its
// store-assigned id and creation time.
func (r *ProductRepository) Insert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	row := r.pool.QueryRow(ctx, `
		insert into products (name, category, price, quantity, min_quantity, description, batches, created_by)
		values ($1, $2, $3, $4, $5, $6, $7, $8)
		returning `+productColumns,
		p.Name, p.Category, p.Price, p.Quantity, p.MinQuantity, p.Description, p.Batches, p.CreatedBy)

	stored, err := scanProduct(row)
	if err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}
	return &stored, nil
}

// Update rewrites the business fields of the row keyed by id. Creation
// audit fields are never touched. Returns domain.ErrNotFound when the
// id does not exist.
func (r *ProductRepository) Update(ctx context.Context, p domain.Product) (*domain.Product, error) {
	row := r.pool.QueryRow(ctx, `
		update products
		set name = $2, category = $3, price = $4, quantity = $5, min_quantity = $6,
		    description = $7, batches = $8, updated_by = $9, updated_at = now()
		where id = $1
		returning `+productColumns,
		p.ID, p.Name, p.Category, p.Price, p.Quantity, p.MinQuantity,
		p.Description, p.Batches, p.UpdatedBy)

	stored, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update product: %w", err)
	}
	return &stored, nil
}

// Delete removes the row. Deleting an id the store does not hold is a
// success: the statement simply affects zero rows.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, `delete from products where id = $1`, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

func scanProduct(row pgx.Row) (domain.Product, error) {
	var p domain.Product
	var updatedBy pgtype.Text
	var updatedAt pgtype.Timestamptz
	err := row.Scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.Quantity, &p.MinQuantity,
		&p.Description, &p.Batches, &p.CreatedBy, &p.CreatedAt, &updatedBy, &updatedAt)
	if err != nil {
		return domain.Product{}, err
	}
	p.UpdatedBy = updatedBy.String
	if updatedAt.Valid {
		p.UpdatedAt = updatedAt.Time
	}
	return p, nil
}
