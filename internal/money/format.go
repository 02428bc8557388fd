// Package money renders minor-unit amounts as localized currency strings.
package money

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/noah-isme/lunch-tray/internal/pricing"
)

// Formatter formats amounts for one locale and currency.
type Formatter struct {
	unit    currency.Unit
	printer *message.Printer
	scale   int
}

// NewFormatter builds a Formatter from a BCP 47 locale and ISO 4217 currency code.
func NewFormatter(locale, code string) (*Formatter, error) {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}
	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, fmt.Errorf("parse currency %q: %w", code, err)
	}
	scale, _ := currency.Standard.Rounding(unit)
	return &Formatter{unit: unit, printer: message.NewPrinter(tag), scale: scale}, nil
}

// Currency returns the ISO code of the formatter.
func (f *Formatter) Currency() string {
	return f.unit.String()
}

// Digits returns the number of minor-unit digits of the currency.
func (f *Formatter) Digits() int {
	return f.scale
}

// Major converts minor units into the currency's major unit.
func (f *Formatter) Major(amount pricing.Money) float64 {
	return float64(amount) / math.Pow10(f.scale)
}

// Format renders amount, expressed in minor units, with the currency symbol.
func (f *Formatter) Format(amount pricing.Money) string {
	return f.printer.Sprint(currency.Symbol(f.unit.Amount(f.Major(amount))))
}
