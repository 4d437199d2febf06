// =============================================================================
// SmartBill - Invoice Document Model
// =============================================================================
//
// The document model is the content of an exported invoice before it is laid
// out on a page: title block, metadata, the item table and the summary block,
// in that order. The PDF renderer draws exactly these fields; tests and the
// other exporters can inspect the model without decoding a PDF.
//
// =============================================================================

package pdfwriter

import (
	"strconv"
	"strings"

	"github.com/ginjaninja78/smartbill/internal/billing"
	"github.com/ginjaninja78/smartbill/internal/types"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
)

// TableHeader is the item table header row, left to right.
var TableHeader = [4]string{"Item", "Price", "Qty", "Total"}

// Options carries the presentation settings of an exported document.
type Options struct {
	ShopName       string
	CurrencySymbol string
	DateFormat     string
	Footer         string
}

// TableRow is one item row of the document table.
type TableRow struct {
	Name     string
	Price    string
	Quantity string
	Total    string
}

// SummaryLine is one label/amount pair of the summary block.
type SummaryLine struct {
	Label  string
	Amount string
}

// Document is the invoice content in render order.
type Document struct {
	Title         string
	InvoiceNumber string
	Customer      string
	Date          string
	Rows          []TableRow
	Summary       []SummaryLine
	Footer        string
}

// BuildDocument maps a bill snapshot and its totals to a Document.
func BuildDocument(bill types.Bill, totals types.Totals, opts Options) Document {
	opts = withDefaults(opts)

	doc := Document{
		Title:         opts.ShopName + " - INVOICE",
		InvoiceNumber: bill.InvoiceNumber,
		Customer:      bill.CustomerName(),
		Date:          bill.Timestamp.Format(opts.DateFormat),
		Footer:        opts.Footer,
	}

	for _, item := range bill.Items {
		doc.Rows = append(doc.Rows, TableRow{
			Name:     item.Name,
			Price:    FormatPrice(item.UnitPrice),
			Quantity: strconv.Itoa(item.Quantity),
			Total:    billing.FormatAmount(item.LineTotal()),
		})
	}

	sym := pageSymbol(opts.CurrencySymbol)
	doc.Summary = []SummaryLine{
		{Label: "Subtotal", Amount: billing.FormatMoney(sym, totals.Subtotal)},
		{Label: "Discount (" + billing.FormatRate(bill.DiscountRate) + "%)", Amount: "-" + billing.FormatMoney(sym, totals.DiscountAmount)},
		{Label: "Tax (" + billing.FormatRate(bill.TaxRate) + "%)", Amount: billing.FormatMoney(sym, totals.TaxAmount)},
		{Label: "GRAND TOTAL", Amount: billing.FormatMoney(sym, totals.GrandTotal)},
	}

	return doc
}

// pageSymbol returns the currency symbol when the page fonts can draw it.
// The core PDF fonts are limited to Windows-1252; any other rune would be
// drawn as "." and change how the amount reads, so such symbols are left out
// and the amounts print bare.
func pageSymbol(symbol string) string {
	if _, err := charmap.Windows1252.NewEncoder().String(symbol); err != nil {
		return ""
	}
	return symbol
}

// FormatPrice renders a unit price. Prices with more than two decimal
// places keep their full precision so the table reproduces the bill exactly.
func FormatPrice(price decimal.Decimal) string {
	if price.Exponent() < -billing.CurrencyPlaces && !price.Equal(billing.Round(price)) {
		return price.String()
	}
	return billing.FormatAmount(price)
}

// ParseRow converts a table row back into a line item. Grouping commas are
// ignored.
func ParseRow(row TableRow) (types.LineItem, error) {
	price, err := decimal.NewFromString(strings.ReplaceAll(row.Price, ",", ""))
	if err != nil {
		return types.LineItem{}, err
	}
	qty, err := strconv.Atoi(row.Quantity)
	if err != nil {
		return types.LineItem{}, err
	}
	return types.LineItem{Name: row.Name, UnitPrice: price, Quantity: qty}, nil
}

func withDefaults(opts Options) Options {
	if opts.ShopName == "" {
		opts.ShopName = "SMARTBILL PRO"
	}
	if opts.DateFormat == "" {
		opts.DateFormat = "2006-01-02 15:04:05"
	}
	if opts.Footer == "" {
		opts.Footer = "Thank you for your business!"
	}
	return opts
}
