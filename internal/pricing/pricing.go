// Package pricing converts the quote API's loosely-formatted price strings
// into integral currency units and derives day-over-day change metrics.
package pricing

import (
	"strconv"
	"unicode"

	"github.com/shopspring/decimal"
)

// ParsePrice converts a raw price string into integral currency units.
// Thousands separators, whitespace and unit suffixes are ignored. Strings
// carrying no digit at all ("", "-", "   ") report ok=false: the quote is
// absent, not zero.
func ParsePrice(raw string) (price int64, ok bool) {
	var digits []rune
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			digits = append(digits, r)
		case r == ',' || unicode.IsSpace(r):
			// separator
		default:
			// placeholder or unit text
		}
	}
	if len(digits) == 0 {
		return 0, false
	}

	value, err := strconv.ParseInt(string(digits), 10, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// ChangeRate returns change/base*100 rounded to 4 decimal places, half-up.
// A non-positive base yields 0.
func ChangeRate(change, base int64) float64 {
	if base <= 0 {
		return 0
	}
	rate := decimal.NewFromInt(change).
		Div(decimal.NewFromInt(base)).
		Mul(decimal.NewFromInt(100)).
		Round(4)
	value, _ := rate.Float64()
	return value
}
