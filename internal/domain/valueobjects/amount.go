// Package valueobjects contains immutable value objects that represent domain
// concepts without identity. They are compared by their values.
package valueobjects

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Amount represents a monetary quantity of some asset.
// Uses shopspring/decimal for exact decimal arithmetic; float64 never touches
// money-movement code paths.
//
// Value Object Pattern:
// - Immutable: all operations return new Amount instances
// - Self-validating: cannot create a negative Amount
//
// The asset binding (which currency the amount is in) lives on the Account and
// Transaction entities; Amount itself is a plain scaled decimal.
type Amount struct {
	value decimal.Decimal
}

// Common errors for Amount operations.
var (
	ErrNegativeAmount = errors.New("amount cannot be negative")
	ErrInvalidAmount  = errors.New("invalid amount format")
)

// MaxDecimalPlaces is the upper bound an asset type may declare.
const MaxDecimalPlaces = 8

// NewAmount parses a decimal string (e.g. "100.50", "0.001") into an Amount.
//
// Returns an error if the string cannot be parsed or is negative.
func NewAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if d.IsNegative() {
		return Amount{}, ErrNegativeAmount
	}
	return Amount{value: d}, nil
}

// NewAmountFromInt creates an Amount from whole units.
func NewAmountFromInt(n int64) (Amount, error) {
	if n < 0 {
		return Amount{}, ErrNegativeAmount
	}
	return Amount{value: decimal.NewFromInt(n)}, nil
}

// MustAmount parses s and panics on failure. For tests and seed code only.
func MustAmount(s string) Amount {
	a, err := NewAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

// ZeroAmount returns the zero Amount.
func ZeroAmount() Amount {
	return Amount{value: decimal.Zero}
}

// Round returns the Amount rounded to the given number of decimal places
// using banker's rounding (round half to even). This is the normalization
// applied at the engine boundary before any balance math.
func (a Amount) Round(places int32) Amount {
	return Amount{value: a.value.RoundBank(places)}
}

// FitsPrecision reports whether the amount is exactly representable with the
// given number of decimal places (no rounding would occur).
func (a Amount) FitsPrecision(places int32) bool {
	return a.value.Equal(a.value.RoundBank(places))
}

// Add returns a + b.
func (a Amount) Add(b Amount) Amount {
	return Amount{value: a.value.Add(b.value)}
}

// Sub returns a - b. When b exceeds a it returns ErrNegativeAmount instead of
// a negative result.
func (a Amount) Sub(b Amount) (Amount, error) {
	d := a.value.Sub(b.value)
	if d.IsNegative() {
		return Amount{}, ErrNegativeAmount
	}
	return Amount{value: d}, nil
}

// Cmp compares a against b: -1 if a < b, 0 if equal, +1 if a > b.
func (a Amount) Cmp(b Amount) int {
	return a.value.Cmp(b.value)
}

// IsZero reports whether the amount is zero.
func (a Amount) IsZero() bool {
	return a.value.IsZero()
}

// IsPositive reports whether the amount is strictly greater than zero.
func (a Amount) IsPositive() bool {
	return a.value.IsPositive()
}

// Equal reports value equality (ignores representation scale: 1.50 == 1.5).
func (a Amount) Equal(b Amount) bool {
	return a.value.Equal(b.value)
}

// Decimal returns the underlying decimal value (a copy; decimals are
// immutable).
func (a Amount) Decimal() decimal.Decimal {
	return a.value
}

// String returns the canonical decimal representation, e.g. "100.5".
func (a Amount) String() string {
	return a.value.String()
}

// StringFixed renders the amount with exactly the given decimal places,
// e.g. StringFixed(2) of 100.5 is "100.50". Used for display formatting.
func (a Amount) StringFixed(places int32) string {
	return a.value.StringFixed(places)
}

// Float64 returns the amount as float64. Display and consistency-tolerance
// checks only, never balance arithmetic.
func (a Amount) Float64() float64 {
	f, _ := a.value.Float64()
	return f
}

// MarshalJSON renders the amount as a JSON number string in its canonical
// form, e.g. "12.5" for 12.50.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.value.String() + `"`), nil
}

// UnmarshalJSON accepts both string and bare-number encodings.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, data)
	}
	if d.IsNegative() {
		return ErrNegativeAmount
	}
	a.value = d
	return nil
}
