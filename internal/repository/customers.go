package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/fleximart/etl-pipeline/internal/model"
)

type CustomersRepository interface {
	UpsertBatch(ctx context.Context, tx *sqlx.Tx, rows []model.Customer) error
	ListIDsByEmail(ctx context.Context) (map[string]int64, error)
}

type CustomersRepositoryImpl struct {
	db *sqlx.DB
}

func NewCustomersRepository(db *sqlx.DB) *CustomersRepositoryImpl {
	return &CustomersRepositoryImpl{db: db}
}

var _ CustomersRepository = (*CustomersRepositoryImpl)(nil)

// UpsertBatch inserts customers keyed on the unique email; repeated
// application with the same input only updates the mutable fields.
func (r *CustomersRepositoryImpl) UpsertBatch(ctx context.Context, tx *sqlx.Tx, rows []model.Customer) error {
	const q = `
		INSERT INTO customers
		    (first_name, last_name, email, phone, city, registration_date)
		VALUES
		    (?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
		    phone             = VALUES(phone),
		    city              = VALUES(city),
		    registration_date = VALUES(registration_date)
	`
	for _, c := range rows {
		if _, err := tx.ExecContext(ctx, q,
			c.FirstName, c.LastName, c.Email, c.Phone, c.City, c.RegistrationDate,
		); err != nil {
			return err
		}
	}
	return nil
}

// ListIDsByEmail returns every persisted email -> surrogate id in one batch
// query; the key resolver builds its mapping from this in memory.
func (r *CustomersRepositoryImpl) ListIDsByEmail(ctx context.Context) (map[string]int64, error) {
	rows, err := r.db.QueryxContext(ctx, `SELECT customer_id, email FROM customers`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var id int64
		var email string
		if err := rows.Scan(&id, &email); err != nil {
			return nil, err
		}
		out[email] = id
	}
	return out, rows.Err()
}
