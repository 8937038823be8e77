// Package metrics holds the per-run counter set threaded through every
// pipeline stage, plus the Prometheus mirror of the same counts.
package metrics

import (
	"encoding/json"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Report is the mutable counter set for one pipeline run. It is passed by
// pointer into every stage and never reset mid-run; the report emitter reads
// a snapshot at end of run.
type Report struct {
	Customers CustomerCounters `json:"customers"`
	Products  ProductCounters  `json:"products"`
	Sales     SalesCounters    `json:"sales"`

	GeneratedAt time.Time `json:"generated_at"`
}

type CustomerCounters struct {
	Processed           int `json:"processed"`
	DuplicatesRemoved   int `json:"duplicates_removed"`
	MissingEmailDropped int `json:"missing_email_dropped"`
	InvalidPhones       int `json:"invalid_phones"` // standardized to null
	DatesParsed         int `json:"dates_parsed"`
	Loaded              int `json:"loaded"`
}

type ProductCounters struct {
	Processed              int `json:"processed"`
	DuplicatesRemoved      int `json:"duplicates_removed"`
	CategoriesStandardized int `json:"categories_standardized"`
	MissingStockFilled     int `json:"missing_stock_filled"`
	MissingPricesImputed   int `json:"missing_prices_imputed"`
	Dropped                int `json:"dropped"` // category or price unresolvable
	Loaded                 int `json:"loaded"`
}

type SalesCounters struct {
	Processed         int `json:"processed"`
	DuplicatesRemoved int `json:"duplicates_removed"`
	MissingIDsDropped int `json:"missing_ids_dropped"`
	InvalidDropped    int `json:"invalid_dropped"` // bad quantity, price or date
	DatesParsed       int `json:"dates_parsed"`
	OrdersLoaded      int `json:"orders_loaded"`
	OrdersSkipped     int `json:"orders_skipped"` // unresolved customer code
	ItemsLoaded       int `json:"items_loaded"`
	ItemsSkipped      int `json:"items_skipped"` // unresolved order or product code
}

// SaveSnapshot writes the counter set as JSON so `fleximart report` can
// re-render the document without re-running the pipeline.
func (r Report) SaveSnapshot(path string) error {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func LoadSnapshot(path string) (Report, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Report{}, err
	}
	var r Report
	if err := json.Unmarshal(b, &r); err != nil {
		return Report{}, err
	}
	return r, nil
}

var (
	RowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleximart_rows_total",
			Help: "Row dispositions per run by entity and disposition",
		},
		[]string{"entity", "disposition"},
	)
)

func MustRegister(r prometheus.Registerer) {
	r.MustRegister(
		RowsTotal,
	)
}

// Export mirrors the run's counter set into the Prometheus counters.
func Export(r Report) {
	add := func(entity, disposition string, n int) {
		RowsTotal.WithLabelValues(entity, disposition).Add(float64(n))
	}

	add("customers", "processed", r.Customers.Processed)
	add("customers", "duplicates_removed", r.Customers.DuplicatesRemoved)
	add("customers", "missing_email_dropped", r.Customers.MissingEmailDropped)
	add("customers", "invalid_phones", r.Customers.InvalidPhones)
	add("customers", "dates_parsed", r.Customers.DatesParsed)
	add("customers", "loaded", r.Customers.Loaded)

	add("products", "processed", r.Products.Processed)
	add("products", "duplicates_removed", r.Products.DuplicatesRemoved)
	add("products", "categories_standardized", r.Products.CategoriesStandardized)
	add("products", "missing_stock_filled", r.Products.MissingStockFilled)
	add("products", "missing_prices_imputed", r.Products.MissingPricesImputed)
	add("products", "dropped", r.Products.Dropped)
	add("products", "loaded", r.Products.Loaded)

	add("sales", "processed", r.Sales.Processed)
	add("sales", "duplicates_removed", r.Sales.DuplicatesRemoved)
	add("sales", "missing_ids_dropped", r.Sales.MissingIDsDropped)
	add("sales", "invalid_dropped", r.Sales.InvalidDropped)
	add("sales", "dates_parsed", r.Sales.DatesParsed)
	add("orders", "loaded", r.Sales.OrdersLoaded)
	add("orders", "skipped", r.Sales.OrdersSkipped)
	add("order_items", "loaded", r.Sales.ItemsLoaded)
	add("order_items", "skipped", r.Sales.ItemsSkipped)
}
