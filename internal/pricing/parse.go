package pricing

import (
	"math"
	"strconv"
	"strings"
)

// Operator-facing numeric fields arrive as free text. Parsing is lenient
// by contract: a quantity that fails to parse becomes 1, an amount that
// fails to parse becomes 0. The bool reports whether the raw value was
// usable so callers can log rejects without failing the edit.

// ParseQuantity coerces raw text into a positive whole quantity
func ParseQuantity(raw string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1, false
	}
	return n, true
}

// ParseAmount coerces raw text into a finite monetary amount.
// Negative values are allowed; surcharge and discount lines use them.
func ParseAmount(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// FormatAmount renders a monetary amount with two decimals
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// FormatWeight renders a weight without trailing zeros ("1.5", "12")
func FormatWeight(kg float64) string {
	return strconv.FormatFloat(kg, 'f', -1, 64)
}
