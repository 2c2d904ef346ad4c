package invoicing

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var ecPrinter = message.NewPrinter(language.MustParse("es-EC"))

// FormatAmount renders a monetary value with Ecuadorian grouping,
// e.g. 1234.5 -> "$1.234,50".
func FormatAmount(val float64) string {
	return ecPrinter.Sprintf("$%.2f", val)
}
