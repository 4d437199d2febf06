// =============================================================================
// SmartBill - CSV Item Sheet Parser
// =============================================================================
//
// This module reads line items from a CSV item sheet. An item sheet is any
// table with an item name column, a price column and a quantity column:
//
//   Item,Price,Qty
//   Pen,10.00,3
//   Notebook,50.00,2
//
// FEATURES:
//   - Different delimiters (comma, semicolon, pipe, tab)
//   - The header row is found by scanning, so title or metadata rows above
//     the table are skipped
//   - Header names are matched case-insensitively against a set of aliases
//     ("Item" / "Item Name" / "Name", "Price" / "Unit Price", "Qty" /
//     "Quantity")
//   - The table ends at the first row with neither a price nor a quantity
//     (a blank row or a summary row such as "Subtotal,,,130.00"); rows after
//     it are ignored
//
// Values are returned as raw text. Validation happens when the items are
// added to a bill.
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ginjaninja78/smartbill/internal/types"
)

// =============================================================================
// SETTINGS
// =============================================================================

// Settings controls how a CSV item sheet is read.
type Settings struct {
	// Delimiter is the field separator: ",", ";", "|", "tab".
	// Default: ","
	Delimiter string
}

// =============================================================================
// HEADER ALIASES
// =============================================================================

var (
	nameHeaders  = []string{"item", "item name", "name", "description"}
	priceHeaders = []string{"price", "unit price", "rate"}
	qtyHeaders   = []string{"qty", "quantity"}
)

// Columns locates the item columns of a sheet.
type Columns struct {
	// HeaderRow is the 0-based index of the header row.
	HeaderRow int

	Name     int
	Price    int
	Quantity int
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a CSV item sheet from disk.
//
// PARAMETERS:
//   - filePath: The path to the CSV file.
//   - settings: Reader settings.
//
// RETURNS:
//   - The item rows in file order.
//   - An error if the file cannot be read or has no item header.
func Parse(filePath string, settings Settings) ([]types.ItemInput, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return ParseReader(bufio.NewReader(file), settings)
}

// ParseReader reads a CSV item sheet from r.
func ParseReader(r io.Reader, settings Settings) ([]types.ItemInput, error) {
	csvReader := csv.NewReader(r)
	configureReader(csvReader, settings)

	allRows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	if len(allRows) == 0 {
		return nil, fmt.Errorf("CSV file is empty")
	}

	return ExtractItems(allRows)
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings Settings) {
	switch settings.Delimiter {
	case "\\t", "tab", "TAB":
		reader.Comma = '\t'
	case "|", "pipe", "PIPE":
		reader.Comma = '|'
	case ";", "semicolon":
		reader.Comma = ';'
	default:
		if len(settings.Delimiter) > 0 {
			reader.Comma = rune(settings.Delimiter[0])
		} else {
			reader.Comma = ','
		}
	}

	// Metadata rows above the table have fewer columns.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
}

// =============================================================================
// TABLE EXTRACTION
// =============================================================================

// ExtractItems finds the item table in rows and returns its data rows. The
// XLSX parser shares this logic once a sheet has been read into rows.
//
// RETURNS:
//   - The item rows; Row numbers are 1-based positions in rows.
//   - An error if no header row is found.
func ExtractItems(rows [][]string) ([]types.ItemInput, error) {
	cols, err := FindColumns(rows)
	if err != nil {
		return nil, err
	}

	var items []types.ItemInput
	for i := cols.HeaderRow + 1; i < len(rows); i++ {
		item := types.ItemInput{
			Row:      i + 1,
			Name:     cell(rows[i], cols.Name),
			Price:    cell(rows[i], cols.Price),
			Quantity: cell(rows[i], cols.Quantity),
		}
		if item.Price == "" && item.Quantity == "" {
			break
		}

		items = append(items, item)
	}

	return items, nil
}

// FindColumns scans rows for the first one that names all three item
// columns.
func FindColumns(rows [][]string) (Columns, error) {
	for i, row := range rows {
		cols := Columns{HeaderRow: i, Name: -1, Price: -1, Quantity: -1}

		for j, header := range row {
			h := strings.ToLower(strings.TrimSpace(header))
			switch {
			case cols.Name < 0 && matches(h, nameHeaders):
				cols.Name = j
			case cols.Price < 0 && matches(h, priceHeaders):
				cols.Price = j
			case cols.Quantity < 0 && matches(h, qtyHeaders):
				cols.Quantity = j
			}
		}

		if cols.Name >= 0 && cols.Price >= 0 && cols.Quantity >= 0 {
			return cols, nil
		}
	}

	return Columns{}, fmt.Errorf("no header row with item, price and quantity columns")
}

func matches(header string, aliases []string) bool {
	for _, a := range aliases {
		if header == a {
			return true
		}
	}
	return false
}

func cell(row []string, index int) string {
	if index < len(row) {
		return strings.TrimSpace(row[index])
	}
	return ""
}
