package clean

import (
	"sort"
	"strconv"
	"strings"

	"github.com/fleximart/etl-pipeline/internal/extract"
	"github.com/fleximart/etl-pipeline/internal/metrics"
)

// Canonical product categories. Matching is case-insensitive; anything
// outside this set is unmapped and the row is dropped downstream.
const (
	CategoryElectronics = "Electronics"
	CategoryFashion     = "Fashion"
	CategoryGroceries   = "Groceries"
)

var categoryMap = map[string]string{
	"electronics": CategoryElectronics,
	"fashion":     CategoryFashion,
	"groceries":   CategoryGroceries,
}

func MapCategory(raw string) (string, bool) {
	c, ok := categoryMap[strings.ToLower(strings.TrimSpace(raw))]
	return c, ok
}

// ImputeCustomers drops rows without an email; email is the unique natural
// key and a row without one can never be upserted or resolved.
func ImputeCustomers(rows []Customer, m *metrics.Report) []Customer {
	out := make([]Customer, 0, len(rows))
	for _, c := range rows {
		if c.Email == "" {
			m.Customers.MissingEmailDropped++
			continue
		}
		out = append(out, c)
	}
	return out
}

// PriceStats holds the aggregates the price imputation consults: per-category
// medians over rows with both a known price and a mapped category, and the
// overall median over all rows with a known price.
type PriceStats struct {
	ByCategory map[string]float64
	Overall    float64
	HasOverall bool
}

// ComputePriceStats is a pure function over rows whose categories are already
// mapped; it must run before ApplyPriceImputation.
func ComputePriceStats(rows []Product) PriceStats {
	stats := PriceStats{ByCategory: make(map[string]float64)}

	perCategory := make(map[string][]float64)
	var all []float64
	for _, p := range rows {
		if p.Price == nil {
			continue
		}
		all = append(all, *p.Price)
		if p.Category != "" {
			perCategory[p.Category] = append(perCategory[p.Category], *p.Price)
		}
	}

	for cat, prices := range perCategory {
		stats.ByCategory[cat] = median(prices)
	}
	if len(all) > 0 {
		stats.Overall = median(all)
		stats.HasOverall = true
	}
	return stats
}

func median(values []float64) float64 {
	v := make([]float64, len(values))
	copy(v, values)
	sort.Float64s(v)
	n := len(v)
	if n%2 == 1 {
		return v[n/2]
	}
	return (v[n/2-1] + v[n/2]) / 2
}

// ImputeProducts maps categories through the canonical set, fills missing
// stock with zero, imputes missing prices from category medians with an
// overall-median fallback, and drops rows still missing price or category.
func ImputeProducts(rows []Product, m *metrics.Report) []Product {
	mapped := make([]Product, 0, len(rows))
	for _, p := range rows {
		if cat, ok := MapCategory(p.Category); ok {
			p.Category = cat
			m.Products.CategoriesStandardized++
		} else {
			p.Category = ""
		}
		if p.Stock == nil {
			zero := int64(0)
			p.Stock = &zero
			m.Products.MissingStockFilled++
		}
		mapped = append(mapped, p)
	}

	stats := ComputePriceStats(mapped)

	out := make([]Product, 0, len(mapped))
	for _, p := range mapped {
		if p.Price == nil {
			if v, ok := stats.ByCategory[p.Category]; ok && p.Category != "" {
				p.Price = &v
				m.Products.MissingPricesImputed++
			} else if stats.HasOverall {
				v := stats.Overall
				p.Price = &v
				m.Products.MissingPricesImputed++
			}
		}
		if p.Category == "" || p.Price == nil {
			m.Products.Dropped++
			continue
		}
		out = append(out, p)
	}
	return out
}

// ImputeSales validates the deduplicated sales rows: both external keys must
// be present, quantity must be a positive number, unit price non-negative,
// and the transaction date parseable. Survivors carry their computed
// subtotal.
func ImputeSales(rows []extract.RawSale, m *metrics.Report) []Sale {
	out := make([]Sale, 0, len(rows))
	for _, r := range rows {
		if r.CustomerID == "" || r.ProductID == "" {
			m.Sales.MissingIDsDropped++
			continue
		}

		qty, okQty := parseFloat(r.Quantity)
		price, okPrice := parseFloat(r.UnitPrice)
		if !okQty || !okPrice || qty <= 0 || price < 0 {
			m.Sales.InvalidDropped++
			continue
		}

		date, ok := ParseDate(r.TransactionDate)
		if !ok {
			m.Sales.InvalidDropped++
			continue
		}
		m.Sales.DatesParsed++

		quantity := int64(qty)
		out = append(out, Sale{
			TransactionID: r.TransactionID,
			CustomerCode:  r.CustomerID,
			ProductCode:   r.ProductID,
			Quantity:      quantity,
			UnitPrice:     price,
			Subtotal:      float64(quantity) * price,
			Status:        r.Status,
			Date:          date,
		})
	}
	return out
}

func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
