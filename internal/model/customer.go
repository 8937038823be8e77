package model

import "time"

type Customer struct {
	ID               int64      `db:"customer_id"`
	FirstName        string     `db:"first_name"`
	LastName         string     `db:"last_name"`
	Email            string     `db:"email"`
	Phone            *string    `db:"phone"`             // nullable, +91-XXXXXXXXXX when present
	City             *string    `db:"city"`              // nullable, title-cased
	RegistrationDate *time.Time `db:"registration_date"` // nullable
}
