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

const saleColumns = `id::text, customer_id::text, customer_name, total_amount, discount_amount,
	final_amount, payment_status, payment_method, order_status, order_number, notes,
	created_by, created_at, updated_by, updated_at`

const saleItemColumns = `id::text, sale_id::text, product_id::text, product_name, product_code,
	quantity, unit_price, total_price`

// SaleRepository persists invoice headers in the sales table and their
// line items in sale_items.
type SaleRepository struct {
	pool *pgxpool.Pool
}

func NewSaleRepository(pool *pgxpool.Pool) *SaleRepository {
	return &SaleRepository{pool: pool}
}

// List returns all sales, newest first, with their line items attached.
func (r *SaleRepository) List(ctx context.Context) ([]domain.Sale, error) {
	rows, err := r.pool.Query(ctx,
		`select `+saleColumns+` from sales order by created_at desc`)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var sales []domain.Sale
	byID := make(map[string]int)
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("list sales: %w", err)
		}
		byID[s.ID] = len(sales)
		sales = append(sales, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(sales) == 0 {
		return sales, nil
	}

	ids := make([]string, 0, len(sales))
	for _, s := range sales {
		ids = append(ids, s.ID)
	}
	itemRows, err := r.pool.Query(ctx,
		`select `+saleItemColumns+` from sale_items where sale_id = any($1::uuid[])`, ids)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		item, err := scanSaleItem(itemRows)
		if err != nil {
			return nil, fmt.Errorf("list sale items: %w", err)
		}
		if i, ok := byID[item.SaleID]; ok {
			sales[i].Items = append(sales[i].Items, item)
		}
	}
	return sales, itemRows.Err()
}

// Insert writes the invoice header only; line items follow through
// InsertItem once the header id is known.
func (r *SaleRepository) Insert(ctx context.Context, s domain.Sale) (*domain.Sale, error) {
	row := r.pool.QueryRow(ctx, `
		insert into sales (customer_id, customer_name, total_amount, discount_amount, final_amount,
			payment_status, payment_method, order_status, order_number, notes, created_by)
		values (nullif($1, '')::uuid, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		returning `+saleColumns,
		s.CustomerID, s.CustomerName, s.TotalAmount, s.DiscountAmount, s.FinalAmount,
		s.PaymentStatus, s.PaymentMethod, s.OrderStatus, s.OrderNumber, s.Notes, s.CreatedBy)

	stored, err := scanSale(row)
	if err != nil {
		return nil, fmt.Errorf("insert sale: %w", err)
	}
	return &stored, nil
}

// InsertItem writes one cart line referencing the header's id.
func (r *SaleRepository) InsertItem(ctx context.Context, item domain.SaleItem) (*domain.SaleItem, error) {
	row := r.pool.QueryRow(ctx, `
		insert into sale_items (sale_id, product_id, product_name, product_code, quantity, unit_price, total_price)
		values ($1::uuid, nullif($2, '')::uuid, $3, $4, $5, $6, $7)
		returning `+saleItemColumns,
		item.SaleID, item.ProductID, item.ProductName, item.ProductCode,
		item.Quantity, item.UnitPrice, item.TotalPrice)

	stored, err := scanSaleItem(row)
	if err != nil {
		return nil, fmt.Errorf("insert sale item: %w", err)
	}
	return &stored, nil
}

// Update rewrites the header's mutable fields: statuses, amounts and
// notes. Line items are immutable once written.
func (r *SaleRepository) Update(ctx context.Context, s domain.Sale) (*domain.Sale, error) {
	row := r.pool.QueryRow(ctx, `
		update sales
		set customer_name = $2, total_amount = $3, discount_amount = $4, final_amount = $5,
		    payment_status = $6, payment_method = $7, order_status = $8, notes = $9,
		    updated_by = $10, updated_at = now()
		where id = $1
		returning `+saleColumns,
		s.ID, s.CustomerName, s.TotalAmount, s.DiscountAmount, s.FinalAmount,
		s.PaymentStatus, s.PaymentMethod, s.OrderStatus, s.Notes, s.UpdatedBy)

	stored, err := scanSale(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update sale: %w", err)
	}
	return &stored, nil
}

// Delete removes the header; sale_items rows follow via the cascading
// foreign key.
func (r *SaleRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, `delete from sales where id = $1`, id); err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	return nil
}

func scanSale(row pgx.Row) (domain.Sale, error) {
	var s domain.Sale
	var customerID, updatedBy pgtype.Text
	var updatedAt pgtype.Timestamptz
	err := row.Scan(&s.ID, &customerID, &s.CustomerName, &s.TotalAmount, &s.DiscountAmount,
		&s.FinalAmount, &s.PaymentStatus, &s.PaymentMethod, &s.OrderStatus, &s.OrderNumber,
		&s.Notes, &s.CreatedBy, &s.CreatedAt, &updatedBy, &updatedAt)
	if err != nil {
		return domain.Sale{}, err
	}
	s.CustomerID = customerID.String
	s.UpdatedBy = updatedBy.String
	if updatedAt.Valid {
		s.UpdatedAt = updatedAt.Time
	}
	return s, nil
}

func scanSaleItem(row pgx.Row) (domain.SaleItem, error) {
	var item domain.SaleItem
	var productID pgtype.Text
	err := row.Scan(&item.ID, &item.SaleID, &productID, &item.ProductName, &item.ProductCode,
		&item.Quantity, &item.UnitPrice, &item.TotalPrice)
	if err != nil {
		return domain.SaleItem{}, err
	}
	item.ProductID = productID.String
	return item, nil
}
