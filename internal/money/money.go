// Package money implements the scaled-decimal arithmetic the order
// pipeline and route optimizer need for prices and distances. Every
// monetary value flows through decimal.Decimal rather than float64 so
// that markup and totals round the same way every time.
package money

import "github.com/shopspring/decimal"

// Markup is the fixed multiplier applied to a catalog base price to
// derive the unit price charged on an order line.
var Markup = decimal.NewFromFloat(1.30)

// TwoPlaces is the exponent used for currency rounding (cents).
const TwoPlaces = 2

// UnitPrice computes base price * markup, rounded half-to-even to two
// decimal places — the rounding mode Postgres's numeric type and most
// accounting systems use, so repeated calculations stay reconcilable.
func UnitPrice(basePrice decimal.Decimal) decimal.Decimal {
	return basePrice.Mul(Markup).RoundBank(TwoPlaces)
}

// LineTotal computes quantity * unitPrice, rounded half-to-even to two
// decimal places.
func LineTotal(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).RoundBank(TwoPlaces)
}

// Sum adds a set of amounts and rounds the result to two decimal places.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total.RoundBank(TwoPlaces)
}
