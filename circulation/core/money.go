package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidMoney is returned for amounts that are not a non-negative decimal with at most two fraction digits.
var ErrInvalidMoney = errors.New("amount must be a non-negative decimal with at most two fraction digits")

// Money is an amount in cents.
type Money int64

// ParseMoney parses "10", "10.5" or "10.50".
func ParseMoney(value string) (Money, error) {
	value = strings.TrimSpace(value)

	units, fraction, hasFraction := strings.Cut(value, ".")
	if units == "" || (hasFraction && (fraction == "" || len(fraction) > 2)) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidMoney, value)
	}

	if len(fraction) == 1 {
		fraction += "0"
	}

	if fraction == "" {
		fraction = "00"
	}

	wholeUnits, err := strconv.ParseUint(units, 10, 32)
	if err != nil {
		return 0, errors.Join(ErrInvalidMoney, err)
	}

	cents, err := strconv.ParseUint(fraction, 10, 8)
	if err != nil {
		return 0, errors.Join(ErrInvalidMoney, err)
	}

	return Money(int64(wholeUnits)*100 + int64(cents)), nil
}

// String renders the amount with two fraction digits, e.g. "100.00".
func (m Money) String() string {
	sign := ""
	if m < 0 {
		sign = "-"
		m = -m
	}

	return fmt.Sprintf("%s%d.%02d", sign, int64(m)/100, int64(m)%100)
}

// Float64 returns the amount in currency units for JSON responses.
func (m Money) Float64() float64 {
	return float64(m) / 100
}

// Times multiplies the amount by n.
func (m Money) Times(n int) Money {
	return m * Money(n)
}
