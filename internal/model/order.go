package model

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusCompleted OrderStatus = "Completed"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

type Order struct {
	ID          int64       `db:"order_id"`
	CustomerID  int64       `db:"customer_id"`
	OrderDate   time.Time   `db:"order_date"`
	TotalAmount float64     `db:"total_amount"`
	Status      OrderStatus `db:"status"`
}

type OrderItem struct {
	ID        int64   `db:"order_item_id"`
	OrderID   int64   `db:"order_id"`
	ProductID int64   `db:"product_id"`
	Quantity  int64   `db:"quantity"`
	UnitPrice float64 `db:"unit_price"`
	Subtotal  float64 `db:"subtotal"` // always quantity * unit_price
}
