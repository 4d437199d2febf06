// =============================================================================
// SmartBill - Receipt Formatter
// =============================================================================
//
// This module renders a bill as fixed-width monospaced text.
//
// The same text is the on-screen preview and the print payload, so Format
// must be deterministic: equal bills and totals always give identical bytes.
//
// =============================================================================

package receipt

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ginjaninja78/smartbill/internal/billing"
	"github.com/ginjaninja78/smartbill/internal/types"
)

const (
	// Width is the column count of banners and dividers.
	Width = 38

	// NameWidth is the item name column; longer names are truncated.
	NameWidth = 20

	// FixedRows is the number of banner, metadata and summary rows that
	// surround the item rows.
	FixedRows = 14
)

// Formatter renders receipts. The zero value is usable and falls back to
// the built-in title, footer and date layout.
type Formatter struct {
	ShopName   string
	Footer     string
	DateFormat string
}

// NewFormatter creates a Formatter.
func NewFormatter(shopName, footer, dateFormat string) *Formatter {
	return &Formatter{ShopName: shopName, Footer: footer, DateFormat: dateFormat}
}

// Format generates the receipt text for a bill and its totals. Every row,
// including the last, ends in a newline.
func (f *Formatter) Format(bill types.Bill, totals types.Totals) string {
	return strings.Join(f.Lines(bill, totals), "\n") + "\n"
}

// Lines returns the receipt rows without line terminators.
func (f *Formatter) Lines(bill types.Bill, totals types.Totals) []string {
	heavy := strings.Repeat("=", Width)
	light := strings.Repeat("-", Width)

	lines := make([]string, 0, FixedRows+len(bill.Items))

	lines = append(lines, heavy)
	lines = append(lines, center(f.shopName()+" INVOICE"))
	lines = append(lines, heavy)
	lines = append(lines, "Date: "+bill.Timestamp.Format(f.dateFormat()))
	lines = append(lines, "Customer: "+singleLine(bill.CustomerName()))
	lines = append(lines, light)

	for _, item := range bill.Items {
		lines = append(lines, fmt.Sprintf("%-20s %5s x%2d = %8s",
			truncate(singleLine(item.Name), NameWidth),
			billing.FormatAmount(item.UnitPrice),
			item.Quantity,
			billing.FormatAmount(item.LineTotal())))
	}

	lines = append(lines, light)
	lines = append(lines, fmt.Sprintf("Subtotal:           %12s", billing.FormatAmount(totals.Subtotal)))
	lines = append(lines, fmt.Sprintf("Discount (%s%%):   %12s",
		billing.FormatRate(bill.DiscountRate), "-"+billing.FormatAmount(totals.DiscountAmount)))
	lines = append(lines, fmt.Sprintf("Tax (%s%%):        %12s",
		billing.FormatRate(bill.TaxRate), billing.FormatAmount(totals.TaxAmount)))
	lines = append(lines, heavy)
	lines = append(lines, fmt.Sprintf("GRAND TOTAL:         %12s", billing.FormatAmount(totals.GrandTotal)))
	lines = append(lines, heavy)
	lines = append(lines, center(f.footer()))

	return lines
}

func (f *Formatter) shopName() string {
	if f.ShopName == "" {
		return "SMARTBILL PRO"
	}
	return f.ShopName
}

func (f *Formatter) footer() string {
	if f.Footer == "" {
		return "Thank you for your business!"
	}
	return f.Footer
}

func (f *Formatter) dateFormat() string {
	if f.DateFormat == "" {
		return "2006-01-02 15:04:05"
	}
	return f.DateFormat
}

// center pads text on both sides to Width runes. Longer text is returned
// unchanged.
func center(text string) string {
	n := utf8.RuneCountInString(text)
	if n >= Width {
		return text
	}
	left := (Width - n) / 2
	right := Width - n - left
	return strings.Repeat(" ", left) + text + strings.Repeat(" ", right)
}

func truncate(text string, max int) string {
	if utf8.RuneCountInString(text) <= max {
		return text
	}
	return string([]rune(text)[:max])
}

// singleLine keeps user text from adding rows to the receipt.
func singleLine(text string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' {
			return ' '
		}
		return r
	}, text)
}
