package model

type Product struct {
	ID            int64   `db:"product_id"`
	Name          string  `db:"product_name"`
	Category      string  `db:"category"` // one of the canonical categories in internal/clean
	Price         float64 `db:"price"`
	StockQuantity int64   `db:"stock_quantity"`
}
