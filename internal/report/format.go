package report

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter renders amounts as locale formatted currency strings.
type Formatter struct {
	tag         language.Tag
	unit        currency.Unit
	symbolAfter bool
	printer     *message.Printer
}

// NewFormatter builds a formatter for a BCP 47 locale (e.g. "en-US") and an
// ISO 4217 currency code (e.g. "USD"). symbolAfter places the symbol after
// the number, as in "1.234,50 €".
func NewFormatter(locale, code string, symbolAfter bool) (*Formatter, error) {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}
	unit, err := currency.ParseISO(strings.TrimSpace(code))
	if err != nil {
		return nil, fmt.Errorf("parse currency %q: %w", code, err)
	}
	return &Formatter{
		tag:         tag,
		unit:        unit,
		symbolAfter: symbolAfter,
		printer:     message.NewPrinter(tag),
	}, nil
}

// DefaultFormatter formats US dollars for en-US.
func DefaultFormatter() *Formatter {
	f, err := NewFormatter("en-US", "USD", false)
	if err != nil {
		panic(err)
	}
	return f
}

// Format renders amount with grouping separators, two fraction digits and the
// currency symbol of the configured locale.
func (f *Formatter) Format(amount decimal.Decimal) string {
	rounded := amount.Round(2)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}
	num := f.printer.Sprint(number.Decimal(rounded.InexactFloat64(), number.Scale(2)))
	sym := f.Symbol()
	if f.symbolAfter {
		return sign + num + " " + sym
	}
	return sign + sym + num
}

// Symbol returns the locale's symbol for the configured currency.
func (f *Formatter) Symbol() string {
	return f.printer.Sprint(currency.Symbol(f.unit))
}

// Locale returns the configured locale tag.
func (f *Formatter) Locale() string {
	return f.tag.String()
}

// Currency returns the ISO code of the configured currency.
func (f *Formatter) Currency() string {
	return f.unit.String()
}

// FormatCurrency is a one-shot helper for callers without a configured
// formatter. It falls back to en-US/USD when locale or code is invalid.
func FormatCurrency(amount decimal.Decimal, locale, code string) string {
	f, err := NewFormatter(locale, code, false)
	if err != nil {
		f = DefaultFormatter()
	}
	return f.Format(amount)
}
