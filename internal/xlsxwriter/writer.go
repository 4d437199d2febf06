// =============================================================================
// SmartBill - XLSX Export Adapter
// =============================================================================
//
// This module writes an invoice workbook with excelize. The sheet carries the
// same content, in the same order, as the PDF export:
//
//   A1        Title
//   A2:B4     Invoice number, customer, date
//   row 6     Item | Price | Qty | Total        (header band)
//   row 7..   one row per item, numeric cells
//   blank row
//   Subtotal, Discount, Tax, Grand Total       (amount in column D)
//
// Prices and totals are numeric cells with a "#,##0.00" display format; the
// stored value keeps full precision, so the xlsxparser package can read the
// items back exactly.
//
// =============================================================================

package xlsxwriter

import (
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/smartbill/internal/billing"
	"github.com/ginjaninja78/smartbill/internal/pdfwriter"
	"github.com/ginjaninja78/smartbill/internal/types"
	"github.com/ginjaninja78/smartbill/pkg/utils"
)

const (
	// Extension is appended to export paths that lack it.
	Extension = ".xlsx"

	// SheetName is the name of the invoice sheet.
	SheetName = "Invoice"

	headerRow = 6
)

// ExportError wraps a failure to build or save a workbook.
type ExportError struct {
	Path string
	Op   string
	Err  error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("XLSX export failed (%s %s): %v", e.Op, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

// Export writes the bill as a workbook to path, appending ".xlsx" when the
// path lacks it. Returns the path written.
func Export(path string, bill types.Bill, totals types.Totals, opts pdfwriter.Options) (string, error) {
	path = utils.EnsureExtension(path, Extension)

	if bill.IsEmpty() {
		return path, &ExportError{Path: path, Op: "validate", Err: fmt.Errorf("no items to export")}
	}

	f, err := Build(bill, totals, opts)
	if err != nil {
		return path, &ExportError{Path: path, Op: "build", Err: err}
	}
	defer f.Close()

	if err := utils.EnsureDirectory(filepath.Dir(path)); err != nil {
		return path, &ExportError{Path: path, Op: "write", Err: err}
	}

	if err := f.SaveAs(path); err != nil {
		return path, &ExportError{Path: path, Op: "write", Err: err}
	}

	return path, nil
}

// Build creates the invoice workbook in memory. The caller closes it.
func Build(bill types.Bill, totals types.Totals, opts pdfwriter.Options) (*excelize.File, error) {
	doc := pdfwriter.BuildDocument(bill, totals, opts)

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	styles, err := newStyles(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	w := &sheetWriter{f: f}

	w.set("A1", doc.Title)
	w.style("A1", "A1", styles.title)
	w.set("A2", "Invoice")
	w.set("B2", doc.InvoiceNumber)
	w.set("A3", "Customer")
	w.set("B3", doc.Customer)
	w.set("A4", "Date")
	w.set("B4", doc.Date)

	for i, h := range pdfwriter.TableHeader {
		w.set(cellName(i+1, headerRow), h)
	}
	w.style(cellName(1, headerRow), cellName(4, headerRow), styles.header)

	row := headerRow + 1
	for _, item := range bill.Items {
		w.set(cellName(1, row), item.Name)
		w.set(cellName(2, row), item.UnitPrice.InexactFloat64())
		w.set(cellName(3, row), item.Quantity)
		w.set(cellName(4, row), billing.Round(item.LineTotal()).InexactFloat64())
		row++
	}
	w.style(cellName(2, headerRow+1), cellName(2, row-1), styles.money)
	w.style(cellName(4, headerRow+1), cellName(4, row-1), styles.money)

	row++
	summary := []struct {
		label  string
		amount float64
	}{
		{doc.Summary[0].Label, totals.Subtotal.InexactFloat64()},
		{doc.Summary[1].Label, totals.DiscountAmount.Neg().InexactFloat64()},
		{doc.Summary[2].Label, totals.TaxAmount.InexactFloat64()},
		{doc.Summary[3].Label, totals.GrandTotal.InexactFloat64()},
	}
	for i, s := range summary {
		w.set(cellName(1, row), s.label)
		w.set(cellName(4, row), s.amount)
		st := styles.money
		if i == len(summary)-1 {
			st = styles.grand
			w.style(cellName(1, row), cellName(1, row), styles.bold)
		}
		w.style(cellName(4, row), cellName(4, row), st)
		row++
	}

	w.set(cellName(1, row+1), doc.Footer)

	w.width("A", "A", 30)
	w.width("B", "D", 14)

	if w.err != nil {
		f.Close()
		return nil, w.err
	}
	return f, nil
}

// sheetWriter records the first excelize error so the layout code reads
// top to bottom.
type sheetWriter struct {
	f   *excelize.File
	err error
}

func (w *sheetWriter) set(cell string, value interface{}) {
	if w.err != nil {
		return
	}
	if err := w.f.SetCellValue(SheetName, cell, value); err != nil {
		w.err = fmt.Errorf("failed to set %s: %w", cell, err)
	}
}

func (w *sheetWriter) style(from, to string, id int) {
	if w.err != nil {
		return
	}
	if err := w.f.SetCellStyle(SheetName, from, to, id); err != nil {
		w.err = fmt.Errorf("failed to style %s:%s: %w", from, to, err)
	}
}

func (w *sheetWriter) width(from, to string, width float64) {
	if w.err != nil {
		return
	}
	if err := w.f.SetColWidth(SheetName, from, to, width); err != nil {
		w.err = fmt.Errorf("failed to size columns %s:%s: %w", from, to, err)
	}
}

type styleSet struct {
	title, header, money, grand, bold int
}

func newStyles(f *excelize.File) (styleSet, error) {
	moneyFmt := "#,##0.00"
	defs := []*excelize.Style{
		{Font: &excelize.Font{Bold: true, Size: 16, Color: "2980B9"}},
		{
			Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{"2C3E50"}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center"},
		},
		{CustomNumFmt: &moneyFmt},
		{CustomNumFmt: &moneyFmt, Font: &excelize.Font{Bold: true, Color: "27AE60"}},
		{Font: &excelize.Font{Bold: true}},
	}

	ids := make([]int, len(defs))
	for i, d := range defs {
		id, err := f.NewStyle(d)
		if err != nil {
			return styleSet{}, fmt.Errorf("failed to create style: %w", err)
		}
		ids[i] = id
	}

	return styleSet{title: ids[0], header: ids[1], money: ids[2], grand: ids[3], bold: ids[4]}, nil
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
