package clean

import (
	"strings"

	"github.com/fleximart/etl-pipeline/internal/extract"
	"github.com/fleximart/etl-pipeline/internal/metrics"
)

// Identity-tuple functions are the single source of truth for duplicate
// detection. The key resolver re-deduplicates the raw extracts with these
// same functions so the two passes can never diverge.

func CustomerIdentity(code, email string) string {
	return code + "\x1f" + email
}

func ProductIdentity(code, name string) string {
	return code + "\x1f" + name
}

func SaleIdentity(transactionID string) string {
	return transactionID
}

// dedupBy keeps the first occurrence of each key in input order.
func dedupBy[T any](rows []T, key func(T) string) ([]T, int) {
	seen := make(map[string]struct{}, len(rows))
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		k := key(r)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	return out, len(rows) - len(out)
}

func DedupCustomers(rows []Customer, m *metrics.Report) []Customer {
	out, removed := dedupBy(rows, func(c Customer) string {
		return CustomerIdentity(c.ExternalCode, c.Email)
	})
	m.Customers.DuplicatesRemoved += removed
	return out
}

func DedupProducts(rows []Product, m *metrics.Report) []Product {
	out, removed := dedupBy(rows, func(p Product) string {
		return ProductIdentity(p.ExternalCode, p.Name)
	})
	m.Products.DuplicatesRemoved += removed
	return out
}

func DedupSales(rows []extract.RawSale, m *metrics.Report) []extract.RawSale {
	out, removed := dedupBy(rows, func(s extract.RawSale) string {
		return SaleIdentity(s.TransactionID)
	})
	m.Sales.DuplicatesRemoved += removed
	return out
}

// DedupRawCustomers re-deduplicates the raw customer extract for key
// resolution: trimmed fields, rows without an email dropped, first
// occurrence per identity tuple kept. It applies the exact same identity
// function as DedupCustomers so the two passes cannot diverge.
func DedupRawCustomers(raws []extract.RawCustomer) []extract.RawCustomer {
	trimmed := make([]extract.RawCustomer, 0, len(raws))
	for _, r := range raws {
		r.CustomerID = strings.TrimSpace(r.CustomerID)
		r.Email = strings.TrimSpace(r.Email)
		if r.Email == "" {
			continue
		}
		trimmed = append(trimmed, r)
	}
	out, _ := dedupBy(trimmed, func(r extract.RawCustomer) string {
		return CustomerIdentity(r.CustomerID, r.Email)
	})
	return out
}

// DedupRawProducts is the product-side counterpart of DedupRawCustomers.
func DedupRawProducts(raws []extract.RawProduct) []extract.RawProduct {
	trimmed := make([]extract.RawProduct, 0, len(raws))
	for _, r := range raws {
		r.ProductID = strings.TrimSpace(r.ProductID)
		r.ProductName = strings.TrimSpace(r.ProductName)
		trimmed = append(trimmed, r)
	}
	out, _ := dedupBy(trimmed, func(r extract.RawProduct) string {
		return ProductIdentity(r.ProductID, r.ProductName)
	})
	return out
}
