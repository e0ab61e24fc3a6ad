package domain

import "github.com/shopspring/decimal"

// SettlePayment returns the change owed for an order total, or an
// InsufficientPaymentError when the tendered amount does not cover it.
func SettlePayment(total, tendered decimal.Decimal) (decimal.Decimal, error) {
	if tendered.LessThan(total) {
		return decimal.Zero, &InsufficientPaymentError{Required: total, Tendered: tendered}
	}
	return tendered.Sub(total), nil
}
