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

const customerColumns = `id::text, name, email, phone, address, city, customer_type,
	credit_limit, discount, current_balance, created_by, created_at, updated_by, updated_at`

// CustomerRepository persists customer records in the customers table.
type CustomerRepository struct {
	pool *pgxpool.Pool
}

func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

func (r *CustomerRepository) List(ctx context.Context) ([]domain.Customer, error) {
	rows, err := r.pool.Query(ctx,
		`select `+customerColumns+` from customers order by created_at desc`)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var customers []domain.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("list customers: %w", err)
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (r *CustomerRepository) Insert(ctx context.Context, c domain.Customer) (*domain.Customer, error) {
	row := r.pool.QueryRow(ctx, `
		insert into customers (name, email, phone, address, city, customer_type,
			credit_limit, discount, current_balance, created_by)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		returning `+customerColumns,
		c.Name, c.Email, c.Phone, c.Address, c.City, c.CustomerType,
		c.CreditLimit, c.Discount, c.CurrentBalance, c.CreatedBy)

	stored, err := scanCustomer(row)
	if err != nil {
		return nil, fmt.Errorf("insert customer: %w", err)
	}
	return &stored, nil
}

func (r *CustomerRepository) Update(ctx context.Context, c domain.Customer) (*domain.Customer, error) {
	row := r.pool.QueryRow(ctx, `
		update customers
		set name = $2, email = $3, phone = $4, address = $5, city = $6, customer_type = $7,
		    credit_limit = $8, discount = $9, current_balance = $10, updated_by = $11, updated_at = now()
		where id = $1
		returning `+customerColumns,
		c.ID, c.Name, c.Email, c.Phone, c.Address, c.City, c.CustomerType,
		c.CreditLimit, c.Discount, c.CurrentBalance, c.UpdatedBy)

	stored, err := scanCustomer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update customer: %w", err)
	}
	return &stored, nil
}

func (r *CustomerRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, `delete from customers where id = $1`, id); err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	return nil
}

func scanCustomer(row pgx.Row) (domain.Customer, error) {
	var c domain.Customer
	var updatedBy pgtype.Text
	var updatedAt pgtype.Timestamptz
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.City, &c.CustomerType,
		&c.CreditLimit, &c.Discount, &c.CurrentBalance, &c.CreatedBy, &c.CreatedAt,
		&updatedBy, &updatedAt)
	if err != nil {
		return domain.Customer{}, err
	}
	c.UpdatedBy = updatedBy.String
	if updatedAt.Valid {
		c.UpdatedAt = updatedAt.Time
	}
	return c, nil
}
