// Package report renders the data-quality document from a metrics snapshot.
package report

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fleximart/etl-pipeline/internal/metrics"
)

// Render produces the plain-text report. The snapshot's GeneratedAt is used
// when set so re-rendering a saved snapshot keeps the original timestamp.
func Render(m metrics.Report) string {
	ts := m.GeneratedAt
	if ts.IsZero() {
		ts = time.Now()
	}

	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format+"\n", args...)
	}

	line("FlexiMart ETL Data Quality Report")
	line("Generated at: %s", ts.Format("2006-01-02T15:04:05"))
	line("")
	line("Customers")
	line("- Records processed: %d", m.Customers.Processed)
	line("- Duplicates removed: %d", m.Customers.DuplicatesRemoved)
	line("- Missing emails dropped: %d", m.Customers.MissingEmailDropped)
	line("- Phones standardized to null (invalid): %d", m.Customers.InvalidPhones)
	line("- Dates parsed: %d", m.Customers.DatesParsed)
	line("- Records loaded: %d", m.Customers.Loaded)
	line("")
	line("Products")
	line("- Records processed: %d", m.Products.Processed)
	line("- Duplicates removed: %d", m.Products.DuplicatesRemoved)
	line("- Categories standardized: %d", m.Products.CategoriesStandardized)
	line("- Missing stock filled with 0: %d", m.Products.MissingStockFilled)
	line("- Missing prices imputed: %d", m.Products.MissingPricesImputed)
	line("- Unresolvable category/price dropped: %d", m.Products.Dropped)
	line("- Records loaded: %d", m.Products.Loaded)
	line("")
	line("Sales / Orders")
	line("- Records processed: %d", m.Sales.Processed)
	line("- Duplicates removed: %d", m.Sales.DuplicatesRemoved)
	line("- Missing customer/product IDs dropped: %d", m.Sales.MissingIDsDropped)
	line("- Invalid quantity/price/date dropped: %d", m.Sales.InvalidDropped)
	line("- Dates parsed: %d", m.Sales.DatesParsed)
	line("- Orders loaded: %d", m.Sales.OrdersLoaded)
	line("- Orders skipped (unresolved customer): %d", m.Sales.OrdersSkipped)
	line("- Order items loaded: %d", m.Sales.ItemsLoaded)
	line("- Order items skipped (unresolved refs): %d", m.Sales.ItemsSkipped)

	return b.String()
}

// Write renders the snapshot to the given path.
func Write(path string, m metrics.Report) error {
	return os.WriteFile(path, []byte(Render(m)), 0o644)
}
