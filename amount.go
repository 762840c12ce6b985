package coinvest

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses an amount typed by a user.
//
// Blank text is zero: an empty capital field means "no capital". A comma is
// accepted as the decimal separator and spaces as thousand separators. On
// error the returned value is zero, so callers summing inputs can ignore it.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	s = strings.ReplaceAll(s, ",", ".")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\u00a0", "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	return d, nil
}

// FormatAmount formats an amount with exactly two decimals.
func FormatAmount(d decimal.Decimal) string { return d.StringFixed(2) }
