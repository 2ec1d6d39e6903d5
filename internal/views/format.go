package views

import (
	"fmt"
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NotAvailable is displayed wherever a value cannot be computed.
const NotAvailable = "N/A"

// Formatter turns numbers into display strings for one locale.
type Formatter struct {
	printer *message.Printer
	symbol  string
}

// NewFormatter creates a Formatter for a BCP 47 locale such as "en-IN".
func NewFormatter(locale, currencySymbol string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid display locale %q: %w", locale, err)
	}
	return &Formatter{
		printer: message.NewPrinter(tag),
		symbol:  currencySymbol,
	}, nil
}

// Currency formats amount as a grouped whole number with the currency
// symbol in front. Halves round away from zero.
func (f *Formatter) Currency(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return NotAvailable
	}
	return f.symbol + f.printer.Sprintf("%d", int64(math.Round(amount)))
}

// Decimal formats v with one fractional digit.
func Decimal(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NotAvailable
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}
