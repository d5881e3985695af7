package domain

import "time"

// Product is a catalog item manufactured or resold by the business.
// ID is assigned by the relational store on first write-through and is
// unique within the products collection.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	Quantity    float64   `json:"quantity"`
	MinQuantity float64   `json:"min_quantity"`
	Description string    `json:"description"`
	Batches     []string  `json:"batches"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedBy   string    `json:"updated_by,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

// RecordID satisfies the cache record contract.
func (p Product) RecordID() string { return p.ID }

// LowStock reports whether quantity has fallen to or below the minimum.
func (p Product) LowStock() bool { return p.Quantity <= p.MinQuantity }
