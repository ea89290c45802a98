package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cemetery is a location orders point at. City and department are the
// free-text fields providers' intervention zones are matched against.
type Cemetery struct {
	ID         uuid.UUID `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Address    *string   `db:"address" json:"address,omitempty"`
	City       string    `db:"city" json:"city"`
	Department string    `db:"department" json:"department"`
	PostalCode *string   `db:"postal_code" json:"postal_code,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// ServiceCategory is a kind of maintenance service with an indicative price.
type ServiceCategory struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Description *string         `db:"description" json:"description,omitempty"`
	BasePrice   decimal.Decimal `db:"base_price" json:"base_price"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}
