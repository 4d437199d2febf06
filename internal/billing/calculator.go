// =============================================================================
// SmartBill - Billing Calculator
// =============================================================================
//
// Compute maps (line items, discount rate, tax rate) to Totals. It is a pure
// function: no state, no side effects, deterministic for equal inputs.
//
// PRECISION:
//   Line totals are accumulated at full decimal precision. Each derived amount
//   (discount, tax, grand total) is computed from the full-precision subtotal
//   and only the results are rounded to two places. Rounding once at the end
//   keeps error from compounding across many line items.
//
// RATE PARSING:
//   Rates are LENIENT. ParseRate turns unparsable or negative input into zero
//   so partially typed values never block recalculation. Item entry, by
//   contrast, is strict (see the validation package).
//
// =============================================================================

package billing

import (
	"strings"

	"github.com/ginjaninja78/smartbill/internal/types"
	"github.com/shopspring/decimal"
)

// CurrencyPlaces is the number of decimal places of every displayed amount.
const CurrencyPlaces = 2

var hundred = decimal.NewFromInt(100)

// Compute derives the bill totals.
//
// PARAMETERS:
//   - items: The line items, in any order.
//   - discountRate: Discount percentage (>= 0).
//   - taxRate: Tax percentage (>= 0).
//
// RETURNS:
//   - Totals with every amount rounded to CurrencyPlaces.
func Compute(items []types.LineItem, discountRate, taxRate decimal.Decimal) types.Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
	}

	discount := subtotal.Mul(discountRate).Div(hundred)
	tax := subtotal.Mul(taxRate).Div(hundred)
	grand := subtotal.Sub(discount).Add(tax)

	return types.Totals{
		Subtotal:       Round(subtotal),
		DiscountAmount: Round(discount),
		TaxAmount:      Round(tax),
		GrandTotal:     Round(grand),
	}
}

// ComputeBill is Compute applied to a snapshot.
func ComputeBill(bill types.Bill) types.Totals {
	return Compute(bill.Items, bill.DiscountRate, bill.TaxRate)
}

// Round rounds an amount half away from zero to CurrencyPlaces.
func Round(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(CurrencyPlaces)
}

// ParseRate parses a rate field leniently.
// Blank, unparsable, and negative input all yield zero. A trailing "%" is
// accepted.
func ParseRate(text string) decimal.Decimal {
	text = strings.TrimSpace(text)
	text = strings.TrimSpace(strings.TrimSuffix(text, "%"))
	if text == "" {
		return decimal.Zero
	}

	rate, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero
	}
	if rate.IsNegative() {
		return decimal.Zero
	}
	return rate
}
