// Package clean implements the transform stages of the pipeline:
// normalization, deduplication and imputation. Stages are pure row-set
// functions except for the counter set they increment.
package clean

import "time"

// Customer is a cleaned customer row. ExternalCode is the source extract's
// customer code; it is never persisted, only used for identity and key
// resolution. Empty string means missing on all text fields.
type Customer struct {
	ExternalCode     string
	FirstName        string
	LastName         string
	Email            string
	Phone            *string
	City             *string
	RegistrationDate *time.Time
}

// Product is a cleaned product row. Category is "" until the imputer maps it
// through the canonical set; Price and Stock are nil until parsed/imputed.
type Product struct {
	ExternalCode string
	Name         string
	Category     string
	Price        *float64
	Stock        *int64
}

// Sale is a validated sales row ready for the load phase. One Sale produces
// one order and one order item.
type Sale struct {
	TransactionID string
	CustomerCode  string
	ProductCode   string
	Quantity      int64
	UnitPrice     float64
	Subtotal      float64
	Status        string
	Date          time.Time
}
