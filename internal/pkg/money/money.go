package money

import (
	"errors"

	"github.com/shopspring/decimal"
)

// centsPerUnit is the number of minor units in one currency unit (USD cents)
const centsPerUnit = 100

// ErrAmountTooSmall is returned when an amount rounds below one cent
var ErrAmountTooSmall = errors.New("amount must be at least 0.01")

// ToCents converts a decimal currency amount to integer cents.
// Rounding is half away from zero. Amounts that round below one cent
// (zero, negative, sub-cent fractions) are rejected so they never reach
// the ledger.
func ToCents(amount decimal.Decimal) (int64, error) {
	cents := amount.Mul(decimal.NewFromInt(centsPerUnit)).Round(0).IntPart()
	if cents < 1 {
		return 0, ErrAmountTooSmall
	}
	return cents, nil
}

// FromCents converts integer cents back to a two-place decimal amount.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}
