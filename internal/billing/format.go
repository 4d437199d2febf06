// =============================================================================
// SmartBill - Amount Formatting
// =============================================================================
//
// Amounts print as "#,##0.00", rates with one decimal place.
//
// =============================================================================

package billing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatAmount renders an amount as "#,##0.00". The digits come straight from
// the decimal, so amounts of any size print exactly.
func FormatAmount(amount decimal.Decimal) string {
	rounded := Round(amount)
	fixed := rounded.Abs().StringFixed(CurrencyPlaces)
	whole, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if rounded.IsNegative() {
		b.WriteByte('-')
	}
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

// FormatMoney prefixes FormatAmount with a currency symbol. Negative amounts
// put the sign before the symbol ("-₹13.00").
func FormatMoney(symbol string, amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-" + symbol + FormatAmount(amount.Neg())
	}
	return symbol + FormatAmount(amount)
}

// FormatRate renders a percentage with one decimal place ("10.0").
func FormatRate(rate decimal.Decimal) string {
	return rate.StringFixed(1)
}
