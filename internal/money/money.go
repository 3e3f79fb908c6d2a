package money

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidAmount = errors.New("invalid money amount")

// ToCents converts a user-entered decimal amount (like 12.34) to cents as
// int64. Totals are always accumulated in cents so floating point never
// drifts the books.
func ToCents(amount float64) (int64, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, ErrInvalidAmount
	}
	if amount < 0 {
		return 0, ErrInvalidAmount
	}
	// Prevent overflow: int64 max ~9e18 => amount max ~9e16
	if amount > 9e16 {
		return 0, fmt.Errorf("%w: too large", ErrInvalidAmount)
	}
	cents := int64(math.Round(amount * 100.0))
	if cents < 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

// FromCents converts cents back to a decimal amount for JSON responses.
// Exact for any value with two decimal places in currency range.
func FromCents(cents int64) float64 {
	return float64(cents) / 100.0
}

// Format renders cents as a plain decimal string like "123.45".
func Format(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
