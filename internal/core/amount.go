// Package core provides the expense tracker's domain types and validation.
//
// This file contains the Amount type used for monetary values. Amounts are
// exact decimals (no float drift) and marshal as plain JSON numbers to match
// the wire format of the API.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a decimal monetary value.
//
// The zero value is a valid zero amount. Amounts travel on the wire as bare
// JSON numbers (12.5, not "12.5"), but unmarshaling also accepts quoted
// numbers since some clients send amounts as strings.
type Amount struct {
	d decimal.Decimal
}

// NewAmount builds an Amount from an exact decimal.
func NewAmount(d decimal.Decimal) Amount {
	return Amount{d: d}
}

// AmountFromFloat builds an Amount from a float64 value.
func AmountFromFloat(f float64) Amount {
	return Amount{d: decimal.NewFromFloat(f)}
}

// ParseAmount parses a decimal string such as "12.50" or "-9.00".
//
// Returns ErrInvalidAmount for anything that is not a plain decimal number.
// Unlike currency-formatted inputs ("$12.50", "1,200.00"), which are
// rejected, a leading sign is accepted; callers decide whether negative
// values are allowed.
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Amount{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, ErrInvalidAmount
	}
	return Amount{d: d}, nil
}

// Abs returns the absolute value.
func (a Amount) Abs() Amount {
	return Amount{d: a.d.Abs()}
}

// IsZero reports whether the amount is exactly zero.
func (a Amount) IsZero() bool {
	return a.d.IsZero()
}

// IsNegative reports whether the amount is below zero.
func (a Amount) IsNegative() bool {
	return a.d.IsNegative()
}

// Equal reports exact numeric equality (12.5 == 12.50).
func (a Amount) Equal(b Amount) bool {
	return a.d.Equal(b.d)
}

// Float64 returns the closest float64 representation, for display only.
func (a Amount) Float64() float64 {
	f, _ := a.d.Float64()
	return f
}

func (a Amount) String() string {
	return a.d.String()
}

// MarshalJSON emits the amount as an unquoted JSON number.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.d.String()), nil
}

// UnmarshalJSON accepts both 12.5 and "12.5".
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		*a = Amount{}
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return ErrInvalidAmount
	}
	a.d = d
	return nil
}
