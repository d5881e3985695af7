package handler

import (
	"time"

	"github.com/lumenpaints/erp-backend/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name"`
	Role     string `json:"role" validate:"required,oneof=user sales supervisor admin"`
}

type sessionResponse struct {
	ID       string    `json:"id"`
	Handle   string    `json:"handle"`
	Name     string    `json:"name"`
	Role     string    `json:"role"`
	IssuedAt time.Time `json:"issued_at"`
}

type loginResponse struct {
	Token   string          `json:"token"`
	Session sessionResponse `json:"session"`
}

type identityResponse struct {
	Subject string `json:"subject"`
	Handle  string `json:"handle"`
	Name    string `json:"name"`
}

// --- Products ---
//
// Numeric fields use domain.FlexFloat so string-typed numbers from
// form-driven clients are coerced; missing or invalid values become 0.

type productRequest struct {
	Name        string           `json:"name" validate:"required"`
	Category    string           `json:"category"`
	Price       domain.FlexFloat `json:"price"`
	Quantity    domain.FlexFloat `json:"quantity"`
	MinQuantity domain.FlexFloat `json:"min_quantity"`
	Description string           `json:"description"`
	Batches     []string         `json:"batches"`
}

func (r productRequest) toDomain() domain.Product {
	return domain.Product{
		Name:        r.Name,
		Category:    r.Category,
		Price:       r.Price.Value(),
		Quantity:    r.Quantity.Value(),
		MinQuantity: r.MinQuantity.Value(),
		Description: r.Description,
		Batches:     r.Batches,
	}
}

// --- Customers ---

type customerRequest struct {
	Name           string           `json:"name" validate:"required"`
	Email          string           `json:"email"`
	Phone          string           `json:"phone"`
	Address        string           `json:"address"`
	City           string           `json:"city"`
	CustomerType   string           `json:"customer_type"`
	CreditLimit    domain.FlexFloat `json:"credit_limit"`
	Discount       domain.FlexFloat `json:"discount"`
	CurrentBalance domain.FlexFloat `json:"current_balance"`
}

func (r customerRequest) toDomain() domain.Customer {
	return domain.Customer{
		Name:           r.Name,
		Email:          r.Email,
		Phone:          r.Phone,
		Address:        r.Address,
		City:           r.City,
		CustomerType:   r.CustomerType,
		CreditLimit:    r.CreditLimit.Value(),
		Discount:       r.Discount.Value(),
		CurrentBalance: r.CurrentBalance.Value(),
	}
}

// --- Sales ---

type saleItemRequest struct {
	ProductID   string           `json:"product_id" validate:"required"`
	ProductName string           `json:"product_name"`
	ProductCode string           `json:"product_code"`
	Quantity    domain.FlexFloat `json:"quantity"`
	UnitPrice   domain.FlexFloat `json:"unit_price"`
	TotalPrice  domain.FlexFloat `json:"total_price"`
}

type saleRequest struct {
	CustomerID     string            `json:"customer_id"`
	CustomerName   string            `json:"customer_name"`
	TotalAmount    domain.FlexFloat  `json:"total_amount"`
	DiscountAmount domain.FlexFloat  `json:"discount_amount"`
	FinalAmount    domain.FlexFloat  `json:"final_amount"`
	PaymentStatus  string            `json:"payment_status"`
	PaymentMethod  string            `json:"payment_method"`
	OrderStatus    string            `json:"order_status"`
	OrderNumber    string            `json:"order_number"`
	Notes          string            `json:"notes"`
	Items          []saleItemRequest `json:"items" validate:"required,min=1,dive"`
}

func (r saleRequest) toDomain() domain.Sale {
	sale := domain.Sale{
		CustomerID:     r.CustomerID,
		CustomerName:   r.CustomerName,
		TotalAmount:    r.TotalAmount.Value(),
		DiscountAmount: r.DiscountAmount.Value(),
		FinalAmount:    r.FinalAmount.Value(),
		PaymentStatus:  r.PaymentStatus,
		PaymentMethod:  r.PaymentMethod,
		OrderStatus:    r.OrderStatus,
		OrderNumber:    r.OrderNumber,
		Notes:          r.Notes,
	}
	for _, item := range r.Items {
		sale.Items = append(sale.Items, domain.SaleItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			ProductCode: item.ProductCode,
			Quantity:    item.Quantity.Value(),
			UnitPrice:   item.UnitPrice.Value(),
			TotalPrice:  item.TotalPrice.Value(),
		})
	}
	return sale
}

type orderStatusRequest struct {
	OrderStatus string `json:"order_status" validate:"required,oneof=pending processing shipped delivered cancelled"`
}

// --- Settings ---

type settingsRequest struct {
	Currency          string         `json:"currency" validate:"required"`
	InactivityMinutes domain.FlexInt `json:"inactivity_minutes" validate:"gte=0"`
	CompanyName       string         `json:"company_name"`
	CompanyAddress    string         `json:"company_address"`
	CompanyPhone      string         `json:"company_phone"`
	TaxNumber         string         `json:"tax_number"`
}
