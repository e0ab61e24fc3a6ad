package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID            int64
	Name          string
	UnitPrice     decimal.Decimal
	StockQuantity int
	SupplierID    int64
}

type Supplier struct {
	ID      int64
	Name    string
	Contact string
}

// DailyTotal is the running revenue of one calendar date.
type DailyTotal struct {
	SaleDate time.Time
	Amount   decimal.Decimal
}

// Validate checks the fields an admin may set on a product.
func (p Product) Validate() error {
	if p.Name == "" {
		return invalidInput("product name is required")
	}
	if p.UnitPrice.IsNegative() {
		return invalidInput("price must not be negative")
	}
	if p.StockQuantity < 0 {
		return invalidInput("stock must not be negative")
	}
	return nil
}

func (s Supplier) Validate() error {
	if s.Name == "" {
		return invalidInput("supplier name is required")
	}
	return nil
}

// DateOf truncates t to its calendar date in t's location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
