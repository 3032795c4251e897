package pricing

import (
	"math"

	"github.com/Rhymond/go-money"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatPrice renders a whole unit price with the currency symbol and grouping,
// e.g. ₹71,585.00 for INR.
func FormatPrice(price int64, currency string) string {
	m := money.New(price, currency)
	fraction := m.Currency().Fraction
	for i := 0; i < fraction; i++ {
		if m.Amount() > math.MaxInt64/10 {
			// Too large to express in minor units.
			return LocalizedPrice(price, Symbol(currency), language.English)
		}
		m = m.Multiply(10)
	}
	return m.Display()
}

// LocalizedPrice prints the price with the digits and grouping of tag.
func LocalizedPrice(price int64, symbol string, tag language.Tag) string {
	return message.NewPrinter(tag).Sprintf("%s%d", symbol, price)
}

// Symbol returns the currency's grapheme, or the code itself when unknown.
func Symbol(currency string) string {
	if c := money.GetCurrency(currency); c != nil && c.Grapheme != "" {
		return c.Grapheme
	}
	return currency
}
