package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const displayPrecision = 6

// ParseAmount parses a decimal-string quantity. Unlike display helpers below,
// this is strict: empty or malformed input is an error, not zero.
func ParseAmount(value string) (decimal.Decimal, error) {
	if strings.TrimSpace(value) == "" {
		return decimal.Decimal{}, fmt.Errorf("empty amount")
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing amount %q: %w", value, err)
	}
	return d, nil
}

// SafeParse parses a string into a decimal, returning zero for invalid or empty input.
func SafeParse(value string) decimal.Decimal {
	if value == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FormatAmount rounds to display precision (6 decimal places) and strips
// trailing zeros.
func FormatAmount(d decimal.Decimal) string {
	rounded := d.Round(displayPrecision)
	s := rounded.StringFixed(displayPrecision)
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s
}
