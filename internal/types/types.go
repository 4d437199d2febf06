// =============================================================================
// SmartBill - Shared Types
// =============================================================================
//
// This package contains the bill data model shared by the store, the
// calculator, the receipt formatter, and every export adapter. Keeping the
// types here avoids import cycles between those packages.
//
// =============================================================================

package types

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCustomer is printed when the customer name is blank.
const DefaultCustomer = "Walk-in Customer"

// =============================================================================
// LINE ITEM
// =============================================================================

// LineItem is one priced entry on a bill.
// Line items are immutable once added to the store.
type LineItem struct {
	// Name is the trimmed, non-empty item name.
	Name string

	// UnitPrice is the positive price of a single unit.
	UnitPrice decimal.Decimal

	// Quantity is the positive number of units.
	Quantity int
}

// LineTotal returns UnitPrice × Quantity at full precision.
func (li LineItem) LineTotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// =============================================================================
// TOTALS
// =============================================================================

// Totals holds the derived amounts of a bill.
// Totals are never stored; they are recomputed from a Bill on demand.
type Totals struct {
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxAmount      decimal.Decimal
	GrandTotal     decimal.Decimal
}

// =============================================================================
// BILL SNAPSHOT
// =============================================================================

// Bill is a read-only snapshot of the bill state handed to formatters and
// export adapters.
type Bill struct {
	// InvoiceNumber identifies the document. May be empty for previews.
	InvoiceNumber string

	// Customer is the raw customer name as entered.
	Customer string

	// Items are the line items in insertion order.
	Items []LineItem

	// DiscountRate is a percentage (already parsed and clamped to >= 0).
	DiscountRate decimal.Decimal

	// TaxRate is a percentage (already parsed and clamped to >= 0).
	TaxRate decimal.Decimal

	// Timestamp is the instant the snapshot was taken.
	Timestamp time.Time
}

// CustomerName returns the customer name, or DefaultCustomer when blank.
func (b Bill) CustomerName() string {
	name := strings.TrimSpace(b.Customer)
	if name == "" {
		return DefaultCustomer
	}
	return name
}

// IsEmpty reports whether the bill has no line items.
func (b Bill) IsEmpty() bool {
	return len(b.Items) == 0
}

// =============================================================================
// RAW ITEM INPUT
// =============================================================================

// ItemInput is an unvalidated line item read from an item sheet or bill file.
// Fields hold the text exactly as found so that imports go through the same
// strict validation as interactive entry.
type ItemInput struct {
	// Row is the 1-based source row, for error messages. Zero when unknown.
	Row int

	Name     string
	Price    string
	Quantity string
}
