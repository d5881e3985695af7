package ports

import (
	"context"
	"encoding/json"

	"github.com/lumenpaints/erp-backend/internal/core/domain"
)

// ProductRepository persists catalog items in the relational store.
// Insert returns the stored row with its store-assigned id and
// timestamps; callers must not touch local state until it succeeds.
type ProductRepository interface {
	List(ctx context.Context) ([]domain.Product, error)
	Insert(ctx context.Context, p domain.Product) (*domain.Product, error)
	Update(ctx context.Context, p domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

// CustomerRepository persists customer records.
type CustomerRepository interface {
	List(ctx context.Context) ([]domain.Customer, error)
	Insert(ctx context.Context, c domain.Customer) (*domain.Customer, error)
	Update(ctx context.Context, c domain.Customer) (*domain.Customer, error)
	Delete(ctx context.Context, id string) error
}

// SaleRepository persists invoice headers and their line items.
// InsertItem is called once per cart line after the header insert has
// assigned the sale id.
type SaleRepository interface {
	List(ctx context.Context) ([]domain.Sale, error)
	Insert(ctx context.Context, s domain.Sale) (*domain.Sale, error)
	InsertItem(ctx context.Context, item domain.SaleItem) (*domain.SaleItem, error)
	Update(ctx context.Context, s domain.Sale) (*domain.Sale, error)
	Delete(ctx context.Context, id string) error
}

// ChangeEvent is one notification from the relational store's change
// feed: an insert, update or delete on one of the subscribed tables,
// regardless of origin. New and Old carry row payloads as emitted by
// the store; either may be absent depending on the event type.
type ChangeEvent struct {
	Table string          `json:"table"`
	Type  string          `json:"event_type"`
	New   json.RawMessage `json:"new"`
	Old   json.RawMessage `json:"old"`
}

// ChangeFeed delivers change events for the subscribed tables until ctx
// is cancelled. The channel is closed when the subscription ends.
type ChangeFeed interface {
	Subscribe(ctx context.Context) (<-chan ChangeEvent, error)
}

// SettingsStore holds the single persisted settings object.
// Load seeds the documented defaults exactly once when absent.
type SettingsStore interface {
	Load(ctx context.Context) (domain.Settings, error)
	Save(ctx context.Context, s domain.Settings) error
}
