// =============================================================================
// SmartBill - Bill Sources
// =============================================================================
//
// This module loads a bill file (YAML bill, CSV or XLSX item sheet) and
// applies it to a session as a single edit.
//
// =============================================================================

package session

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/smartbill/internal/config"
	"github.com/ginjaninja78/smartbill/internal/csvparser"
	"github.com/ginjaninja78/smartbill/internal/types"
	"github.com/ginjaninja78/smartbill/internal/xlsxparser"
)

// SourceOptions controls how item sheets are read.
type SourceOptions struct {
	// Delimiter is the CSV field delimiter (",", ";", "tab", ...).
	Delimiter string

	// Sheet is the XLSX sheet name. Default: the first sheet.
	Sheet string
}

// Source is a bill read from a file. Item sheets carry items only; YAML
// bill files may also carry the customer and rates.
type Source struct {
	Path     string
	Customer string
	Discount string
	Tax      string
	Items    []types.ItemInput
}

// LoadSource reads a bill from path, choosing the reader by extension:
// .yaml/.yml bill files, .csv item sheets and .xlsx item sheets.
func LoadSource(path string, opts SourceOptions) (Source, error) {
	src := Source{Path: path}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		bill, err := config.LoadBill(path)
		if err != nil {
			return src, err
		}
		src.Customer = bill.Customer
		src.Discount = bill.Discount
		src.Tax = bill.Tax
		for i, item := range bill.Items {
			src.Items = append(src.Items, types.ItemInput{
				Row:      i + 1,
				Name:     item.Name,
				Price:    item.Price,
				Quantity: item.Qty,
			})
		}

	case ".csv", ".txt":
		items, err := csvparser.Parse(path, csvparser.Settings{Delimiter: opts.Delimiter})
		if err != nil {
			return src, fmt.Errorf("failed to read item sheet %s: %w", path, err)
		}
		src.Items = items

	case ".xlsx":
		items, err := xlsxparser.Parse(path, xlsxparser.Options{Sheet: opts.Sheet})
		if err != nil {
			return src, fmt.Errorf("failed to read item sheet %s: %w", path, err)
		}
		src.Items = items

	default:
		return src, fmt.Errorf("unsupported bill file %s: expected .yaml, .csv or .xlsx", path)
	}

	return src, nil
}

// Apply loads a source into the bill. Blank customer and rate fields leave
// the current values alone. Every item row is validated first; a rejected
// row returns an *ImportError and leaves the whole bill unchanged, customer
// and rates included.
func (s *Session) Apply(src Source) error {
	err := s.edit(func() error {
		items, err := s.parseInputs(src.Items)
		if err != nil {
			return err
		}

		if src.Customer != "" {
			s.customer = src.Customer
		}
		if src.Discount != "" {
			s.discountText = src.Discount
		}
		if src.Tax != "" {
			s.taxText = src.Tax
		}
		return s.addParsed(items)
	})
	if err != nil {
		return fmt.Errorf("failed to import %s: %w", src.Path, err)
	}
	return nil
}
