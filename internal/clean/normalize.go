package clean

import (
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/fleximart/etl-pipeline/internal/extract"
	"github.com/fleximart/etl-pipeline/internal/metrics"
)

var nonDigit = regexp.MustCompile(`\D`)

var titleCaser = cases.Title(language.English)

// StandardizePhone canonicalizes a phone number to +91-XXXXXXXXXX by
// stripping every non-digit and keeping the last 10 digits. Anything that
// does not reduce to exactly 10 digits is unusable.
func StandardizePhone(raw string) (string, bool) {
	digits := nonDigit.ReplaceAllString(raw, "")
	if len(digits) > 10 {
		digits = digits[len(digits)-10:]
	}
	if len(digits) != 10 {
		return "", false
	}
	return "+91-" + digits, true
}

var monthFirstLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"2006-01-02 15:04:05",
}

var dayFirstLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"02.01.2006",
}

// ParseDate parses mixed date formats, month-first interpretation first and
// day-first only as a fallback.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range monthFirstLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	for _, layout := range dayFirstLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// NormalizeCustomers trims every field, canonicalizes phones, title-cases
// cities and parses registration dates. Missing text is the empty string;
// missing phone/city/date become nil.
func NormalizeCustomers(raws []extract.RawCustomer, m *metrics.Report) []Customer {
	m.Customers.Processed += len(raws)

	out := make([]Customer, 0, len(raws))
	for _, r := range raws {
		c := Customer{
			ExternalCode: strings.TrimSpace(r.CustomerID),
			FirstName:    strings.TrimSpace(r.FirstName),
			LastName:     strings.TrimSpace(r.LastName),
			Email:        strings.TrimSpace(r.Email),
		}

		if phone, ok := StandardizePhone(strings.TrimSpace(r.Phone)); ok {
			c.Phone = &phone
		} else {
			m.Customers.InvalidPhones++
		}

		if city := strings.TrimSpace(r.City); city != "" {
			titled := titleCaser.String(strings.ToLower(city))
			c.City = &titled
		}

		if t, ok := ParseDate(r.RegistrationDate); ok {
			c.RegistrationDate = &t
			m.Customers.DatesParsed++
		}

		out = append(out, c)
	}
	return out
}

// NormalizeProducts trims text fields and parses price/stock numerics.
// Unparseable numbers become nil for the imputer to resolve.
func NormalizeProducts(raws []extract.RawProduct, m *metrics.Report) []Product {
	m.Products.Processed += len(raws)

	out := make([]Product, 0, len(raws))
	for _, r := range raws {
		p := Product{
			ExternalCode: strings.TrimSpace(r.ProductID),
			Name:         strings.TrimSpace(r.ProductName),
			Category:     strings.TrimSpace(r.Category),
		}
		if v, ok := parseFloat(r.Price); ok {
			p.Price = &v
		}
		if v, ok := parseFloat(r.StockQuantity); ok {
			n := int64(v)
			p.Stock = &n
		}
		out = append(out, p)
	}
	return out
}

// NormalizeSales trims every field; parsing and validation belong to the
// imputer.
func NormalizeSales(raws []extract.RawSale, m *metrics.Report) []extract.RawSale {
	m.Sales.Processed += len(raws)

	out := make([]extract.RawSale, 0, len(raws))
	for _, r := range raws {
		out = append(out, extract.RawSale{
			TransactionID:   strings.TrimSpace(r.TransactionID),
			CustomerID:      strings.TrimSpace(r.CustomerID),
			ProductID:       strings.TrimSpace(r.ProductID),
			Quantity:        strings.TrimSpace(r.Quantity),
			UnitPrice:       strings.TrimSpace(r.UnitPrice),
			Status:          strings.TrimSpace(r.Status),
			TransactionDate: strings.TrimSpace(r.TransactionDate),
		})
	}
	return out
}
