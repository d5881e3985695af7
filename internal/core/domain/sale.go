package domain

import "time"

// Order lifecycle states shown on the tracking board.
const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

// Payment states for invoicing.
const (
	PaymentPaid    = "paid"
	PaymentPartial = "partial"
	PaymentUnpaid  = "unpaid"
)

// SaleItem is one cart line of a sale, denormalized with the product
// name and code as they were at the time of sale.
type SaleItem struct {
	ID          string  `json:"id"`
	SaleID      string  `json:"sale_id"`
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	ProductCode string  `json:"product_code"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	TotalPrice  float64 `json:"total_price"`
}

// Sale is an invoice header plus its line items. The header row lives in
// the sales table; items live in sale_items keyed by SaleID.
type Sale struct {
	ID             string     `json:"id"`
	CustomerID     string     `json:"customer_id"`
	CustomerName   string     `json:"customer_name"`
	TotalAmount    float64    `json:"total_amount"`
	DiscountAmount float64    `json:"discount_amount"`
	FinalAmount    float64    `json:"final_amount"`
	PaymentStatus  string     `json:"payment_status"`
	PaymentMethod  string     `json:"payment_method"`
	OrderStatus    string     `json:"order_status"`
	OrderNumber    string     `json:"order_number"`
	Notes          string     `json:"notes"`
	Items          []SaleItem `json:"items"`
	CreatedBy      string     `json:"created_by"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedBy      string     `json:"updated_by,omitempty"`
	UpdatedAt      time.Time  `json:"updated_at,omitempty"`
}

// RecordID satisfies the cache record contract.
func (s Sale) RecordID() string { return s.ID }
