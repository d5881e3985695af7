package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lumenpaints/erp-backend/internal/core/domain"
	"github.com/lumenpaints/erp-backend/internal/core/ports"
	"github.com/lumenpaints/erp-backend/internal/metrics"
)

// Table names as they appear in change-feed events.
const (
	TableProducts  = "products"
	TableCustomers = "customers"
	TableSales     = "sales"
)

// Store is the reconciling data cache: three in-memory collections kept
// consistent with the relational store. Local mutations write through
// to the store and only touch the collection after the store confirms;
// externally-originated changes arrive through the change feed and are
// merged by id.
type Store struct {
	products  *Collection[domain.Product]
	customers *Collection[domain.Customer]
	sales     *Collection[domain.Sale]

	productRepo  ports.ProductRepository
	customerRepo ports.CustomerRepository
	saleRepo     ports.SaleRepository
	feed         ports.ChangeFeed

	mergeProducts  MergePolicy[domain.Product]
	mergeCustomers MergePolicy[domain.Customer]
	mergeSales     MergePolicy[domain.Sale]

	pump *pump
	log  zerolog.Logger
}

// Option tunes Store construction.
type Option func(*Store)

// WithDedupMerge switches all collections to the de-duplicating merge
// policy, suppressing the duplicate entry an INSERT echo of a local
// write would otherwise produce.
func WithDedupMerge() Option {
	return func(s *Store) {
		s.mergeProducts = DedupMerge[domain.Product]
		s.mergeCustomers = DedupMerge[domain.Customer]
		s.mergeSales = DedupMerge[domain.Sale]
	}
}

func NewStore(
	productRepo ports.ProductRepository,
	customerRepo ports.CustomerRepository,
	saleRepo ports.SaleRepository,
	feed ports.ChangeFeed,
	log zerolog.Logger,
	opts ...Option,
) *Store {
	s := &Store{
		products:       NewCollection[domain.Product](),
		customers:      NewCollection[domain.Customer](),
		sales:          NewCollection[domain.Sale](),
		productRepo:    productRepo,
		customerRepo:   customerRepo,
		saleRepo:       saleRepo,
		feed:           feed,
		mergeProducts:  FaithfulMerge[domain.Product],
		mergeCustomers: FaithfulMerge[domain.Customer],
		mergeSales:     FaithfulMerge[domain.Sale],
		log:            log,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.pump = newPump(defaultWorkers, s.applyEvent, log)
	return s
}

// Start seeds the three collections with bulk reads and opens the
// change-feed subscription. Each bulk read fails independently: a
// collection whose read errors starts empty and never blocks the
// others. A subscription failure is returned to the caller.
func (s *Store) Start(ctx context.Context) error {
	if items, err := s.productRepo.List(ctx); err != nil {
		s.log.Error().Err(err).Msg("initial product load failed, starting empty")
	} else {
		s.products.Seed(items)
	}
	if items, err := s.customerRepo.List(ctx); err != nil {
		s.log.Error().Err(err).Msg("initial customer load failed, starting empty")
	} else {
		s.customers.Seed(items)
	}
	if items, err := s.saleRepo.List(ctx); err != nil {
		s.log.Error().Err(err).Msg("initial sale load failed, starting empty")
	} else {
		s.sales.Seed(items)
	}
	s.updateSizeMetrics()

	events, err := s.feed.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("subscribe change feed: %w", err)
	}
	s.pump.start(ctx)
	go func() {
		for ev := range events {
			s.pump.enqueue(ev)
		}
	}()

	s.log.Info().
		Int("products", s.products.Len()).
		Int("customers", s.customers.Len()).
		Int("sales", s.sales.Len()).
		Msg("cache seeded, change feed subscribed")
	return nil
}

// ── Products ──────────────────────────────────────────────────────────────────

func (s *Store) Products() []domain.Product { return s.products.Snapshot() }

func (s *Store) GetProduct(id string) (domain.Product, bool) { return s.products.GetByID(id) }

// AddProduct writes the product through to the relational store and
// prepends the confirmed row. A rejected insert leaves the collection
// untouched.
func (s *Store) AddProduct(ctx context.Context, actor string, p domain.Product) (*domain.Product, error) {
	p.CreatedBy = actor
	persisted, err := s.productRepo.Insert(ctx, p)
	if err != nil {
		metrics.PersistenceErrorsTotal.WithLabelValues(TableProducts, "insert").Inc()
		return nil, persistenceError(err)
	}
	s.products.Prepend(*persisted)
	s.updateSizeMetrics()
	s.log.Info().Str("id", persisted.ID).Str("name", persisted.Name).Msg("product added")
	return persisted, nil
}

// UpdateProduct writes through and replaces the matching local record.
func (s *Store) UpdateProduct(ctx context.Context, actor string, p domain.Product) (*domain.Product, error) {
	p.UpdatedBy = actor
	persisted, err := s.productRepo.Update(ctx, p)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		metrics.PersistenceErrorsTotal.WithLabelValues(TableProducts, "update").Inc()
		return nil, persistenceError(err)
	}
	s.products.ReplaceByID(*persisted)
	return persisted, nil
}

// DeleteProduct deletes remotely first; the local record goes away only
// after the store confirms. Deleting an id the store does not hold is
// still a success and a local no-op.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		metrics.PersistenceErrorsTotal.WithLabelValues(TableProducts, "delete").Inc()
		return persistenceError(err)
	}
	s.products.RemoveByID(id)
	s.updateSizeMetrics()
	return nil
}

// ── Customers ─────────────────────────────────────────────────────────────────

func (s *Store) Customers() []domain.Customer { return s.customers.Snapshot() }

func (s *Store) GetCustomer(id string) (domain.Customer, bool) { return s.customers.GetByID(id) }

func (s *Store) AddCustomer(ctx context.Context, actor string, c domain.Customer) (*domain.Customer, error) {
	c.CreatedBy = actor
	persisted, err := s.customerRepo.Insert(ctx, c)
	if err != nil {
		metrics.PersistenceErrorsTotal.WithLabelValues(TableCustomers, "insert").Inc()
		return nil, persistenceError(err)
	}
	s.customers.Prepend(*persisted)
	s.updateSizeMetrics()
	s.log.Info().Str("id", persisted.ID).Str("name", persisted.Name).Msg("customer added")
	return persisted, nil
}

func (s *Store) UpdateCustomer(ctx context.Context, actor string, c domain.Customer) (*domain.Customer, error) {
	c.UpdatedBy = actor
	persisted, err := s.customerRepo.Update(ctx, c)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		metrics.PersistenceErrorsTotal.WithLabelValues(TableCustomers, "update").Inc()
		return nil, persistenceError(err)
	}
	s.customers.ReplaceByID(*persisted)
	return persisted, nil
}

func (s *Store) DeleteCustomer(ctx context.Context, id string) error {
	if err := s.customerRepo.Delete(ctx, id); err != nil {
		metrics.PersistenceErrorsTotal.WithLabelValues(TableCustomers, "delete").Inc()
		return persistenceError(err)
	}
	s.customers.RemoveByID(id)
	s.updateSizeMetrics()
	return nil
}

// ── Sales ─────────────────────────────────────────────────────────────────────

func (s *Store) Sales() []domain.Sale { return s.sales.Snapshot() }

func (s *Store) GetSale(id string) (domain.Sale, bool) { return s.sales.GetByID(id) }

// AddSale records an invoice: header insert, one line-item insert per
// cart line, then one stock decrement per line through the regular
// product update path, all sequential. There is no rollback: a failure
// partway leaves the earlier remote writes in place and the sales
// collection untouched; later steps are not attempted.
func (s *Store) AddSale(ctx context.Context, actor string, sale domain.Sale) (*domain.Sale, error) {
	items := sale.Items
	sale.Items = nil
	sale.CreatedBy = actor
	if sale.OrderNumber == "" {
		sale.OrderNumber = generateOrderNumber()
	}
	if sale.OrderStatus == "" {
		sale.OrderStatus = domain.OrderPending
	}

	header, err := s.saleRepo.Insert(ctx, sale)
	if err != nil {
		metrics.PersistenceErrorsTotal.WithLabelValues(TableSales, "insert").Inc()
		return nil, persistenceError(err)
	}

	inserted := make([]domain.SaleItem, 0, len(items))
	for _, item := range items {
		item.SaleID = header.ID
		persisted, err := s.saleRepo.InsertItem(ctx, item)
		if err != nil {
			metrics.PersistenceErrorsTotal.WithLabelValues(TableSales, "insert").Inc()
			return nil, persistenceError(err)
		}
		inserted = append(inserted, *persisted)
	}

	for _, item := range inserted {
		product, ok := s.products.GetByID(item.ProductID)
		if !ok {
			s.log.Warn().
				Str("product_id", item.ProductID).
				Str("order_number", header.OrderNumber).
				Msg("sold product not in cache, stock not decremented")
			continue
		}
		product.Quantity -= item.Quantity
		if _, err := s.UpdateProduct(ctx, actor, product); err != nil {
			return nil, err
		}
	}

	header.Items = inserted
	s.sales.Prepend(*header)
	s.updateSizeMetrics()
	metrics.SalesCreatedTotal.WithLabelValues(header.PaymentMethod).Inc()
	s.log.Info().
		Str("order_number", header.OrderNumber).
		Str("customer", header.CustomerName).
		Int("items", len(inserted)).
		Msg("sale recorded")
	return header, nil
}

// UpdateSale writes header changes through (order status, payment
// status, notes) and replaces the local record, keeping its items.
func (s *Store) UpdateSale(ctx context.Context, actor string, sale domain.Sale) (*domain.Sale, error) {
	sale.UpdatedBy = actor
	persisted, err := s.saleRepo.Update(ctx, sale)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		metrics.PersistenceErrorsTotal.WithLabelValues(TableSales, "update").Inc()
		return nil, persistenceError(err)
	}
	if existing, ok := s.sales.GetByID(persisted.ID); ok && len(persisted.Items) == 0 {
		persisted.Items = existing.Items
	}
	s.sales.ReplaceByID(*persisted)
	return persisted, nil
}

func (s *Store) DeleteSale(ctx context.Context, id string) error {
	if err := s.saleRepo.Delete(ctx, id); err != nil {
		metrics.PersistenceErrorsTotal.WithLabelValues(TableSales, "delete").Inc()
		return persistenceError(err)
	}
	s.sales.RemoveByID(id)
	s.updateSizeMetrics()
	return nil
}

// ── Reconciliation ────────────────────────────────────────────────────────────

// applyEvent merges one change-feed event into its collection. Events
// for unknown tables or with undecodable payloads are dropped with a
// log line; reconciliation is best-effort and never retries.
func (s *Store) applyEvent(ev ports.ChangeEvent) {
	switch ev.Table {
	case TableProducts:
		applyTyped(s.products, s.mergeProducts, ev, s.log)
	case TableCustomers:
		applyTyped(s.customers, s.mergeCustomers, ev, s.log)
	case TableSales:
		applyTyped(s.sales, s.mergeSales, ev, s.log)
	default:
		s.log.Debug().Str("table", ev.Table).Msg("change event for unknown table ignored")
		return
	}
	metrics.ChangeEventsTotal.WithLabelValues(ev.Table, ev.Type).Inc()
	s.updateSizeMetrics()
}

func applyTyped[T Record](c *Collection[T], merge MergePolicy[T], ev ports.ChangeEvent, log zerolog.Logger) {
	var newRec, oldRec *T
	if len(ev.New) > 0 {
		var rec T
		if err := json.Unmarshal(ev.New, &rec); err != nil {
			log.Warn().Err(err).Str("table", ev.Table).Msg("undecodable new-row payload")
		} else {
			newRec = &rec
		}
	}
	if len(ev.Old) > 0 {
		var rec T
		if err := json.Unmarshal(ev.Old, &rec); err != nil {
			log.Warn().Err(err).Str("table", ev.Table).Msg("undecodable old-row payload")
		} else {
			oldRec = &rec
		}
	}
	merge(c, ev.Type, newRec, oldRec)
}

func (s *Store) updateSizeMetrics() {
	metrics.CacheRecords.WithLabelValues(TableProducts).Set(float64(s.products.Len()))
	metrics.CacheRecords.WithLabelValues(TableCustomers).Set(float64(s.customers.Len()))
	metrics.CacheRecords.WithLabelValues(TableSales).Set(float64(s.sales.Len()))
}

// persistenceError wraps a remote-store rejection, keeping the store's
// message visible to the caller.
func persistenceError(err error) error {
	return fmt.Errorf("%w: %s", domain.ErrPersistence, err.Error())
}

// generateOrderNumber returns an order number in the format LMN-XXXX-XXXX,
// used when the caller supplies none.
func generateOrderNumber() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("LMN-%s-%s", id[:4], id[4:8])
}
