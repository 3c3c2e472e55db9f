package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// minorUnitScale is the number of decimal places carried in minor units.
// All amounts use a fixed exponent of 2 (cents); currency-specific exponents
// are a collaborator concern.
const minorUnitScale = 2

var minorUnitFactor = decimal.New(1, minorUnitScale)

// Money is a fixed-point monetary value: an integer count of minor units
// tagged with an ISO 4217 currency code. All engine arithmetic happens on
// Money, never on floats.
type Money struct {
	Amount   int64
	Currency string
}

// NewMoney creates a Money value from minor units.
func NewMoney(amount int64, currency string) Money {
	return Money{Amount: amount, Currency: currency}
}

// MoneyFromDecimal converts a major-unit decimal amount ("12.50") into Money.
// Amounts finer than the minor unit are rejected rather than rounded.
func MoneyFromDecimal(d decimal.Decimal, currency string) (Money, error) {
	scaled := d.Mul(minorUnitFactor)
	if !scaled.IsInteger() {
		return Money{}, fmt.Errorf("%w: %s has more than %d decimal places", ErrInvalidAmount, d, minorUnitScale)
	}
	return Money{Amount: scaled.IntPart(), Currency: currency}, nil
}

// Decimal returns the amount in major units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Amount, -minorUnitScale)
}

// Add returns m + o. Mixing currencies is a programming error: inputs are
// validated at the boundary, so a mismatch here panics.
func (m Money) Add(o Money) Money {
	m.assertSameCurrency(o)
	return Money{Amount: m.Amount + o.Amount, Currency: m.Currency}
}

// Sub returns m - o.
func (m Money) Sub(o Money) Money {
	m.assertSameCurrency(o)
	return Money{Amount: m.Amount - o.Amount, Currency: m.Currency}
}

// Neg returns -m.
func (m Money) Neg() Money {
	return Money{Amount: -m.Amount, Currency: m.Currency}
}

// Abs returns the absolute value of m.
func (m Money) Abs() Money {
	if m.Amount < 0 {
		return m.Neg()
	}
	return m
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool { return m.Amount == 0 }

// IsPositive reports whether the amount is greater than zero.
func (m Money) IsPositive() bool { return m.Amount > 0 }

// IsNegative reports whether the amount is less than zero.
func (m Money) IsNegative() bool { return m.Amount < 0 }

// SameCurrency reports whether both values share a currency.
func (m Money) SameCurrency(o Money) bool { return m.Currency == o.Currency }

// String renders the amount in major units with the currency code.
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Decimal().StringFixed(minorUnitScale), m.Currency)
}

func (m Money) assertSameCurrency(o Money) {
	if m.Currency != o.Currency {
		panic(fmt.Sprintf("money: currency mismatch: %s vs %s", m.Currency, o.Currency))
	}
}
