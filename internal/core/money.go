// Package core provides the inventory domain types and value parsing.
//
// This file contains the conversion from raw spreadsheet cell text to an
// exact decimal amount.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a raw cell value to a decimal amount.
//
// Cells come either from excelize raw values ("2500", "0.1", "1E-3") or from
// delimited text, so plain and exponent notation are accepted. Grouping
// separators and currency symbols are not stripped: a cell like "$2,500" is
// malformed.
//
// Examples:
//   ParseAmount("2500")    -> 2500, nil
//   ParseAmount(" 12.34 ") -> 12.34, nil
//   ParseAmount("")        -> 0, ErrMissingValue
//   ParseAmount("abc")     -> 0, ErrMalformedValue
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrMissingValue
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrMalformedValue
	}
	return d, nil
}
