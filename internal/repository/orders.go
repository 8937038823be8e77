package repository

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/fleximart/etl-pipeline/internal/model"
)

type OrdersRepository interface {
	Insert(ctx context.Context, tx *sqlx.Tx, o model.Order) (int64, error)
}

type OrderItemsRepository interface {
	InsertBatch(ctx context.Context, tx *sqlx.Tx, rows []model.OrderItem) error
}

type OrdersRepositoryImpl struct{}

func NewOrdersRepository() *OrdersRepositoryImpl { return &OrdersRepositoryImpl{} }

var _ OrdersRepository = (*OrdersRepositoryImpl)(nil)

// Insert appends one order and returns its assigned surrogate id. Orders are
// append-only per run: each run represents a new batch, so there is no
// natural-key upsert here.
func (r *OrdersRepositoryImpl) Insert(ctx context.Context, tx *sqlx.Tx, o model.Order) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		INSERT INTO orders (customer_id, order_date, total_amount, status)
		VALUES (?, ?, ?, ?)
	`, o.CustomerID, o.OrderDate, o.TotalAmount, string(o.Status))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

type OrderItemsRepositoryImpl struct{}

func NewOrderItemsRepository() *OrderItemsRepositoryImpl { return &OrderItemsRepositoryImpl{} }

var _ OrderItemsRepository = (*OrderItemsRepositoryImpl)(nil)

// InsertBatch appends order items using a single multi-row statement.
func (r *OrderItemsRepositoryImpl) InsertBatch(ctx context.Context, tx *sqlx.Tx, rows []model.OrderItem) error {
	if len(rows) == 0 {
		return nil
	}

	var sb strings.Builder
	args := make([]any, 0, len(rows)*5)

	sb.WriteString(`INSERT INTO order_items (order_id, product_id, quantity, unit_price, subtotal) VALUES `)
	for i, it := range rows {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(?, ?, ?, ?, ?)")
		args = append(args, it.OrderID, it.ProductID, it.Quantity, it.UnitPrice, it.Subtotal)
	}

	_, err := tx.ExecContext(ctx, sb.String(), args...)
	return err
}
