package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/fleximart/etl-pipeline/internal/clean"
	"github.com/fleximart/etl-pipeline/internal/extract"
	"github.com/fleximart/etl-pipeline/internal/metrics"
	"github.com/fleximart/etl-pipeline/internal/model"
	"github.com/fleximart/etl-pipeline/internal/repository"
)

func newLoader(t *testing.T) (*Loader, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	// Customer and product phases run concurrently.
	mock.MatchExpectationsInOrder(false)

	dbx := sqlx.NewDb(mockDB, "mysql")
	l := NewLoader(
		dbx,
		repository.NewCustomersRepository(dbx),
		repository.NewProductsRepository(dbx),
		repository.NewOrdersRepository(),
		repository.NewOrderItemsRepository(),
		zaptest.NewLogger(t),
	)
	return l, mock
}

func TestLoadResolvesKeysAndCountsSkips(t *testing.T) {
	l, mock := newLoader(t)

	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	in := LoadInput{
		Customers: []model.Customer{
			{FirstName: "Asha", LastName: "Rao", Email: "a@x.com"},
		},
		Products: []model.Product{
			{Name: "Widget", Category: "Electronics", Price: 100, StockQuantity: 3},
		},
		Sales: []clean.Sale{
			{TransactionID: "T100", CustomerCode: "C1", ProductCode: "P1", Quantity: 2, UnitPrice: 10.5, Subtotal: 21.0, Status: "Completed", Date: date},
			{TransactionID: "T200", CustomerCode: "C2", ProductCode: "P1", Quantity: 1, UnitPrice: 5, Subtotal: 5, Date: date},
			{TransactionID: "T300", CustomerCode: "C1", ProductCode: "P9", Quantity: 1, UnitPrice: 5, Subtotal: 5, Date: date},
		},
		RawCustomers: []extract.RawCustomer{
			{CustomerID: "C1", Email: "a@x.com"},
			{CustomerID: "C2", Email: ""}, // email cleaned away: resolution miss
		},
		RawProducts: []extract.RawProduct{
			{ProductID: "P1", ProductName: "Widget"},
		},
	}

	// customers phase
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO customers").
		WithArgs("Asha", "Rao", "a@x.com", nil, nil, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT customer_id, email FROM customers").
		WillReturnRows(sqlmock.NewRows([]string{"customer_id", "email"}).AddRow(1, "a@x.com"))

	// products phase
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO products").
		WithArgs("Widget", "Electronics", 100.0, int64(3)).
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT product_id, product_name FROM products").
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "product_name"}).AddRow(5, "Widget"))

	// orders + items phase
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").
		WithArgs(int64(1), date, 21.0, "Completed").
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectExec("INSERT INTO orders").
		WithArgs(int64(1), date, 5.0, "Pending"). // missing status defaults
		WillReturnResult(sqlmock.NewResult(12, 1))
	mock.ExpectExec("INSERT INTO order_items").
		WithArgs(int64(11), int64(5), int64(2), 10.5, 21.0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	var m metrics.Report
	require.NoError(t, l.Load(context.Background(), in, &m))
	assert.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, 1, m.Customers.Loaded)
	assert.Equal(t, 1, m.Products.Loaded)
	assert.Equal(t, 2, m.Sales.OrdersLoaded)
	assert.Equal(t, 1, m.Sales.OrdersSkipped) // T200: customer never resolved
	assert.Equal(t, 1, m.Sales.ItemsLoaded)
	assert.Equal(t, 2, m.Sales.ItemsSkipped) // T200 (no order), T300 (no product)

	// every surviving sale is either an item load or a counted skip
	assert.Equal(t, len(in.Sales)-m.Sales.ItemsLoaded, m.Sales.ItemsSkipped)
}

func TestLoadAllReferencesUnresolved(t *testing.T) {
	l, mock := newLoader(t)

	date := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	in := LoadInput{
		Sales: []clean.Sale{
			{TransactionID: "T1", CustomerCode: "C9", ProductCode: "P9", Quantity: 1, UnitPrice: 1, Subtotal: 1, Date: date},
		},
	}

	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT customer_id, email FROM customers").
		WillReturnRows(sqlmock.NewRows([]string{"customer_id", "email"}))

	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT product_id, product_name FROM products").
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "product_name"}))

	// orders phase: nothing resolvable, nothing inserted
	mock.ExpectBegin()
	mock.ExpectCommit()

	var m metrics.Report
	require.NoError(t, l.Load(context.Background(), in, &m))
	assert.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, 0, m.Sales.OrdersLoaded)
	assert.Equal(t, 1, m.Sales.OrdersSkipped)
	assert.Equal(t, 0, m.Sales.ItemsLoaded)
	assert.Equal(t, 1, m.Sales.ItemsSkipped)
}

func TestLoadOrderWriteFailureRollsBackOnlyThatPhase(t *testing.T) {
	l, mock := newLoader(t)

	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	in := LoadInput{
		Customers: []model.Customer{
			{FirstName: "Asha", LastName: "Rao", Email: "a@x.com"},
		},
		Products: []model.Product{
			{Name: "Widget", Category: "Electronics", Price: 100, StockQuantity: 3},
		},
		Sales: []clean.Sale{
			{TransactionID: "T100", CustomerCode: "C1", ProductCode: "P1", Quantity: 2, UnitPrice: 10.5, Subtotal: 21.0, Date: date},
		},
		RawCustomers: []extract.RawCustomer{{CustomerID: "C1", Email: "a@x.com"}},
		RawProducts:  []extract.RawProduct{{ProductID: "P1", ProductName: "Widget"}},
	}

	// customer and product phases commit as usual
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO customers").
		WithArgs("Asha", "Rao", "a@x.com", nil, nil, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT customer_id, email FROM customers").
		WillReturnRows(sqlmock.NewRows([]string{"customer_id", "email"}).AddRow(1, "a@x.com"))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO products").
		WithArgs("Widget", "Electronics", 100.0, int64(3)).
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT product_id, product_name FROM products").
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "product_name"}).AddRow(5, "Widget"))

	// the order write fails mid-phase: only the orders tx rolls back,
	// the two commits above stay committed
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").
		WithArgs(int64(1), date, 21.0, "Pending").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	var m metrics.Report
	err := l.Load(context.Background(), in, &m)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert order T100")
	assert.NoError(t, mock.ExpectationsWereMet())

	// earlier phases completed and were counted before the failure
	assert.Equal(t, 1, m.Customers.Loaded)
	assert.Equal(t, 1, m.Products.Loaded)
	assert.Equal(t, 0, m.Sales.OrdersLoaded)
	assert.Equal(t, 0, m.Sales.ItemsLoaded)
}

func TestLoadAbortsWhenMapQueryFails(t *testing.T) {
	l, mock := newLoader(t)

	in := LoadInput{
		Customers: []model.Customer{{FirstName: "A", LastName: "B", Email: "a@x.com"}},
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO customers").
		WithArgs("A", "B", "a@x.com", nil, nil, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT customer_id, email FROM customers").
		WillReturnError(assert.AnError)

	// product phase may or may not reach its statements before cancellation
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT product_id, product_name FROM products").
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "product_name"}))

	var m metrics.Report
	err := l.Load(context.Background(), in, &m)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list customer ids")
}
