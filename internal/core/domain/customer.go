package domain

import "time"

// Customer is a buyer on record: retail walk-ins, wholesale dealers and
// project contractors share the same shape, distinguished by CustomerType.
type Customer struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Address        string    `json:"address"`
	City           string    `json:"city"`
	CustomerType   string    `json:"customer_type"`
	CreditLimit    float64   `json:"credit_limit"`
	Discount       float64   `json:"discount"`
	CurrentBalance float64   `json:"current_balance"`
	CreatedBy      string    `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedBy      string    `json:"updated_by,omitempty"`
	UpdatedAt      time.Time `json:"updated_at,omitempty"`
}

// RecordID satisfies the cache record contract.
func (c Customer) RecordID() string { return c.ID }
