package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/fleximart/etl-pipeline/internal/model"
)

type ProductsRepository interface {
	UpsertBatch(ctx context.Context, tx *sqlx.Tx, rows []model.Product) error
	ListIDsByName(ctx context.Context) (map[string]int64, error)
}

type ProductsRepositoryImpl struct {
	db *sqlx.DB
}

func NewProductsRepository(db *sqlx.DB) *ProductsRepositoryImpl {
	return &ProductsRepositoryImpl{db: db}
}

var _ ProductsRepository = (*ProductsRepositoryImpl)(nil)

// UpsertBatch inserts products keyed on the unique product name.
func (r *ProductsRepositoryImpl) UpsertBatch(ctx context.Context, tx *sqlx.Tx, rows []model.Product) error {
	const q = `
		INSERT INTO products
		    (product_name, category, price, stock_quantity)
		VALUES
		    (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
		    category       = VALUES(category),
		    price          = VALUES(price),
		    stock_quantity = VALUES(stock_quantity)
	`
	for _, p := range rows {
		if _, err := tx.ExecContext(ctx, q,
			p.Name, p.Category, p.Price, p.StockQuantity,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *ProductsRepositoryImpl) ListIDsByName(ctx context.Context) (map[string]int64, error) {
	rows, err := r.db.QueryxContext(ctx, `SELECT product_id, product_name FROM products`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		out[name] = id
	}
	return out, rows.Err()
}
