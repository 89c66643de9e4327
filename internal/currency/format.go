// Package currency renders monetary amounts for display. All documents are
// priced in a single fixed currency regardless of item measurement units.
package currency

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Code is the fixed ISO 4217 currency for every document.
const Code = "PKR"

var printer = message.NewPrinter(language.English)

// Format renders an amount with locale grouping and two fractional digits,
// e.g. "PKR 1,234.50". Values keep full float precision until this point.
func Format(amount float64) string {
	return printer.Sprintf("%s %.2f", Code, amount)
}
