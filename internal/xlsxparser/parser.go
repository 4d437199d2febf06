// =============================================================================
// SmartBill - XLSX Item Sheet Parser
// =============================================================================
//
// This module reads line items from an Excel workbook. The table rules are
// the same as for CSV item sheets (see the csvparser package): the header row
// is found by scanning, columns are matched by name, and the table ends at
// the first row with neither a price nor a quantity.
//
// Workbooks written by the xlsxwriter package can be read back, which makes
// an exported invoice usable as the item sheet of a new bill.
//
// CELL VALUES:
//   Cells are read raw, without their display format, so a price stored as
//   1234.567 and displayed as "1,234.57" is returned as "1234.567".
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/smartbill/internal/csvparser"
	"github.com/ginjaninja78/smartbill/internal/types"
)

// Options selects what to read from a workbook.
type Options struct {
	// Sheet is the sheet name. Default: the first sheet.
	Sheet string
}

// Parse reads the item table from an XLSX file.
//
// PARAMETERS:
//   - path: The path to the workbook.
//   - opts: Sheet selection.
//
// RETURNS:
//   - The item rows in sheet order; Row is the 1-based sheet row.
//   - An error if the file cannot be read or has no item header.
func Parse(path string, opts Options) ([]types.ItemInput, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return ParseFile(f, opts)
}

// ParseFile reads the item table from an open workbook.
func ParseFile(f *excelize.File, opts Options) ([]types.ItemInput, error) {
	sheetName := opts.Sheet
	if sheetName == "" {
		sheetName = f.GetSheetName(0)
	}
	if sheetName == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	if index, err := f.GetSheetIndex(sheetName); err != nil || index < 0 {
		return nil, fmt.Errorf("sheet %q not found (sheets: %s)", sheetName, strings.Join(f.GetSheetList(), ", "))
	}

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows of sheet %q: %w", sheetName, err)
	}

	items, err := csvparser.ExtractItems(rows)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheetName, err)
	}

	return items, nil
}
