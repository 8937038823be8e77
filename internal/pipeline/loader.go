package pipeline

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fleximart/etl-pipeline/internal/clean"
	"github.com/fleximart/etl-pipeline/internal/extract"
	"github.com/fleximart/etl-pipeline/internal/metrics"
	"github.com/fleximart/etl-pipeline/internal/model"
	"github.com/fleximart/etl-pipeline/internal/repository"
)

// Loader is the key resolver and load orchestrator. It moves through strictly
// ordered dependency phases, each scoped to its own transaction:
//
//	customers upserted -> customer map built
//	products upserted  -> product map built
//	orders + items inserted against the completed maps
//
// The customer and product phases are mutually independent and run
// concurrently; the order phase waits for both maps. A committed phase is
// never rolled back by a later failure: customer/product upserts are
// idempotent, so the intermediate state is valid and re-runnable.
type Loader struct {
	db        *sqlx.DB
	customers repository.CustomersRepository
	products  repository.ProductsRepository
	orders    repository.OrdersRepository
	items     repository.OrderItemsRepository
	log       *zap.Logger
}

func NewLoader(
	db *sqlx.DB,
	customers repository.CustomersRepository,
	products repository.ProductsRepository,
	orders repository.OrdersRepository,
	items repository.OrderItemsRepository,
	log *zap.Logger,
) *Loader {
	return &Loader{
		db:        db,
		customers: customers,
		products:  products,
		orders:    orders,
		items:     items,
		log:       log,
	}
}

// LoadInput carries the cleaned row sets plus the raw extracts the key
// resolver re-derives natural keys from.
type LoadInput struct {
	Customers []model.Customer
	Products  []model.Product
	Sales     []clean.Sale

	RawCustomers []extract.RawCustomer
	RawProducts  []extract.RawProduct
}

func (l *Loader) Load(ctx context.Context, in LoadInput, m *metrics.Report) error {
	var custMap, prodMap map[string]int64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := l.upsertCustomers(gctx, in.Customers, m); err != nil {
			return err
		}
		var err error
		custMap, err = l.buildCustomerMap(gctx, in.RawCustomers)
		return err
	})
	g.Go(func() error {
		if err := l.upsertProducts(gctx, in.Products, m); err != nil {
			return err
		}
		var err error
		prodMap, err = l.buildProductMap(gctx, in.RawProducts)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	return l.insertOrders(ctx, in.Sales, custMap, prodMap, m)
}

func (l *Loader) upsertCustomers(ctx context.Context, rows []model.Customer, m *metrics.Report) error {
	tx, err := l.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin customers tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := l.customers.UpsertBatch(ctx, tx, rows); err != nil {
		return fmt.Errorf("upsert customers: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit customers: %w", err)
	}

	m.Customers.Loaded += len(rows)
	l.log.Info("customers loaded", zap.Int("rows", len(rows)))
	return nil
}

func (l *Loader) upsertProducts(ctx context.Context, rows []model.Product, m *metrics.Report) error {
	tx, err := l.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin products tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := l.products.UpsertBatch(ctx, tx, rows); err != nil {
		return fmt.Errorf("upsert products: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit products: %w", err)
	}

	m.Products.Loaded += len(rows)
	l.log.Info("products loaded", zap.Int("rows", len(rows)))
	return nil
}

// buildCustomerMap maps external customer codes to surrogate ids. The raw
// extract is re-deduplicated with the shared identity tuple, then each
// surviving row's email is looked up against one batch query of the store.
// A code whose email never persisted is simply absent: a resolution miss,
// not an error.
func (l *Loader) buildCustomerMap(ctx context.Context, raws []extract.RawCustomer) (map[string]int64, error) {
	ids, err := l.customers.ListIDsByEmail(ctx)
	if err != nil {
		return nil, fmt.Errorf("list customer ids: %w", err)
	}

	out := make(map[string]int64)
	for _, r := range clean.DedupRawCustomers(raws) {
		if id, ok := ids[r.Email]; ok {
			out[r.CustomerID] = id
		}
	}
	return out, nil
}

func (l *Loader) buildProductMap(ctx context.Context, raws []extract.RawProduct) (map[string]int64, error) {
	ids, err := l.products.ListIDsByName(ctx)
	if err != nil {
		return nil, fmt.Errorf("list product ids: %w", err)
	}

	out := make(map[string]int64)
	for _, r := range clean.DedupRawProducts(raws) {
		if id, ok := ids[r.ProductName]; ok {
			out[r.ProductID] = id
		}
	}
	return out, nil
}

// insertOrders runs the final dependency phase in a single transaction:
// every surviving sale becomes one order and one item, unless a reference
// fails to resolve, in which case the row is skipped and counted.
func (l *Loader) insertOrders(ctx context.Context, sales []clean.Sale, custMap, prodMap map[string]int64, m *metrics.Report) error {
	tx, err := l.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin orders tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	orderMap := make(map[string]int64, len(sales))
	for _, s := range sales {
		custID, ok := custMap[s.CustomerCode]
		if !ok {
			m.Sales.OrdersSkipped++
			continue
		}

		status := model.OrderStatus(s.Status)
		if status == "" {
			status = model.OrderStatusPending
		}

		id, err := l.orders.Insert(ctx, tx, model.Order{
			CustomerID:  custID,
			OrderDate:   s.Date,
			TotalAmount: s.Subtotal,
			Status:      status,
		})
		if err != nil {
			return fmt.Errorf("insert order %s: %w", s.TransactionID, err)
		}
		orderMap[clean.SaleIdentity(s.TransactionID)] = id
		m.Sales.OrdersLoaded++
	}

	items := make([]model.OrderItem, 0, len(sales))
	for _, s := range sales {
		orderID, okOrder := orderMap[clean.SaleIdentity(s.TransactionID)]
		productID, okProduct := prodMap[s.ProductCode]
		if !okOrder || !okProduct {
			m.Sales.ItemsSkipped++
			continue
		}
		items = append(items, model.OrderItem{
			OrderID:   orderID,
			ProductID: productID,
			Quantity:  s.Quantity,
			UnitPrice: s.UnitPrice,
			Subtotal:  s.Subtotal,
		})
	}
	if err := l.items.InsertBatch(ctx, tx, items); err != nil {
		return fmt.Errorf("insert order items: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit orders: %w", err)
	}

	m.Sales.ItemsLoaded += len(items)
	l.log.Info("orders loaded",
		zap.Int("orders", m.Sales.OrdersLoaded),
		zap.Int("items", len(items)),
		zap.Int("orders_skipped", m.Sales.OrdersSkipped),
		zap.Int("items_skipped", m.Sales.ItemsSkipped),
	)
	return nil
}
