package catalog

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatPrice renders amount with two decimals and the currency symbol
// prefixed, grouping digits according to locale (a BCP 47 tag such as "en"
// or "de"). Unknown tags fall back to English.
func FormatPrice(symbol string, amount float64, locale string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return message.NewPrinter(tag).Sprintf("%s%.2f", symbol, amount)
}
