// =============================================================================
// SmartBill - PDF Export Adapter
// =============================================================================
//
// This module lays out an invoice Document on A4 pages with maroto and writes
// the result to disk.
//
// LAYOUT:
//   1. Title block (shop name, invoice number)
//   2. Customer and date
//   3. Item table: header row (Item, Price, Qty, Total) on a dark band,
//      one row per item, price right-aligned, quantity centred
//   4. Summary block: subtotal, discount, tax, grand total
//   5. Footer line
//
// maroto breaks the item table across pages on its own.
//
// =============================================================================

package pdfwriter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/ginjaninja78/smartbill/internal/types"
	"github.com/ginjaninja78/smartbill/pkg/utils"
)

// Extension is appended to export paths that lack it.
const Extension = ".pdf"

var (
	titleColor  = &props.Color{Red: 41, Green: 128, Blue: 185}
	headerBand  = &props.Color{Red: 44, Green: 62, Blue: 80}
	white       = &props.Color{Red: 255, Green: 255, Blue: 255}
	grandColour = &props.Color{Red: 39, Green: 174, Blue: 96}
)

// =============================================================================
// ERRORS
// =============================================================================

// ExportError wraps a failure to render or write a document.
type ExportError struct {
	// Path is the target file.
	Path string

	// Op is the failed step ("validate", "render", "write").
	Op string

	Err error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("PDF export failed (%s %s): %v", e.Op, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

// =============================================================================
// EXPORT
// =============================================================================

// Export renders the bill and writes it to path, appending ".pdf" when the
// path lacks it.
//
// RETURNS:
//   - The path actually written.
//   - An *ExportError if the bill has no items, rendering fails, or the path
//     is not writable.
func Export(path string, bill types.Bill, totals types.Totals, opts Options) (string, error) {
	path = utils.EnsureExtension(path, Extension)

	if bill.IsEmpty() {
		return path, &ExportError{Path: path, Op: "validate", Err: fmt.Errorf("no items to export")}
	}

	data, err := Render(BuildDocument(bill, totals, opts))
	if err != nil {
		return path, &ExportError{Path: path, Op: "render", Err: err}
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := utils.EnsureDirectory(dir); err != nil {
			return path, &ExportError{Path: path, Op: "write", Err: err}
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return path, &ExportError{Path: path, Op: "write", Err: err}
	}

	return path, nil
}

// Render lays out a Document and returns the PDF bytes.
func Render(doc Document) ([]byte, error) {
	cfg := config.NewBuilder().
		WithLeftMargin(15).
		WithTopMargin(15).
		WithRightMargin(15).
		Build()

	m := maroto.New(cfg)

	addTitle(m, doc)
	addMetadata(m, doc)
	addItemsTable(m, doc)
	addSummary(m, doc)
	addFooter(m, doc)

	pdf, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return pdf.GetBytes(), nil
}

func addTitle(m core.Maroto, doc Document) {
	m.AddRow(14,
		col.New(12).Add(
			text.New(doc.Title, props.Text{
				Size:  18,
				Style: fontstyle.Bold,
				Align: align.Center,
				Color: titleColor,
			}),
		),
	)

	if doc.InvoiceNumber != "" {
		m.AddRow(6,
			col.New(12).Add(
				text.New("# "+doc.InvoiceNumber, props.Text{
					Size:  9,
					Align: align.Center,
				}),
			),
		)
	}
}

func addMetadata(m core.Maroto, doc Document) {
	m.AddRow(7,
		col.New(12).Add(
			text.New("Customer: "+doc.Customer, props.Text{Size: 12, Align: align.Left}),
		),
	)
	m.AddRow(7,
		col.New(12).Add(
			text.New("Date: "+doc.Date, props.Text{Size: 12, Align: align.Left}),
		),
	)
	m.AddRow(10)
}

// addItemsTable uses the column ratio 6:2:1:3 for Item, Price, Qty, Total.
func addItemsTable(m core.Maroto, doc Document) {
	header := props.Text{Size: 12, Style: fontstyle.Bold, Color: white, Top: 1.5}

	m.AddRow(9,
		col.New(6).Add(text.New(TableHeader[0], withAlign(header, align.Left))),
		col.New(2).Add(text.New(TableHeader[1], withAlign(header, align.Right))),
		col.New(1).Add(text.New(TableHeader[2], withAlign(header, align.Center))),
		col.New(3).Add(text.New(TableHeader[3], withAlign(header, align.Right))),
	).WithStyle(&props.Cell{BackgroundColor: headerBand})

	cell := props.Text{Size: 11, Top: 1.5}
	for _, row := range doc.Rows {
		m.AddRow(8,
			col.New(6).Add(text.New(row.Name, withAlign(cell, align.Left))),
			col.New(2).Add(text.New(row.Price, withAlign(cell, align.Right))),
			col.New(1).Add(text.New(row.Quantity, withAlign(cell, align.Center))),
			col.New(3).Add(text.New(row.Total, withAlign(cell, align.Right))),
		)
	}

	m.AddRow(4, line.NewCol(12))
}

func addSummary(m core.Maroto, doc Document) {
	for i, s := range doc.Summary {
		label := props.Text{Size: 12, Align: align.Right}
		amount := props.Text{Size: 12, Style: fontstyle.Bold, Align: align.Right}
		height := 7.0

		// grand total
		if i == len(doc.Summary)-1 {
			label.Size, label.Style = 14, fontstyle.Bold
			amount.Size, amount.Color = 14, grandColour
			height = 9
		}

		m.AddRow(height,
			col.New(6),
			col.New(3).Add(text.New(s.Label+":", label)),
			col.New(3).Add(text.New(s.Amount, amount)),
		)
	}
}

func addFooter(m core.Maroto, doc Document) {
	m.AddRow(12)
	m.AddRow(7,
		col.New(12).Add(
			text.New(doc.Footer, props.Text{Size: 12, Align: align.Center}),
		),
	)
}

func withAlign(p props.Text, a align.Type) props.Text {
	p.Align = a
	return p
}
