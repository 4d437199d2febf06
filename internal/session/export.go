// =============================================================================
// SmartBill - Exports and Printing
// =============================================================================
//
// This module runs the long operations of a session: PDF, XLSX and XML
// export and receipt printing. Each one works on a snapshot of the bill
// while the session is marked busy.
//
// =============================================================================

package session

import (
	"context"
	"time"

	"github.com/ginjaninja78/smartbill/internal/billing"
	"github.com/ginjaninja78/smartbill/internal/pdfwriter"
	"github.com/ginjaninja78/smartbill/internal/printer"
	"github.com/ginjaninja78/smartbill/internal/types"
	"github.com/ginjaninja78/smartbill/internal/xlsxwriter"
	"github.com/ginjaninja78/smartbill/internal/xmlwriter"
)

// Product details shown by About and the version command.
// Version and BuildDate are set at build time using ldflags:
//
//	go build -ldflags "-X 'github.com/ginjaninja78/smartbill/internal/session.Version=5.0.1'"
var (
	ProductName = "SmartBill Pro"
	Version     = "5.0.0"
	BuildDate   = "unknown"
)

// About returns the product name, version and a one-line description.
func About() string {
	return ProductName + " v" + Version + "\nInvoicing for small shops: enter items, preview the receipt, export or print."
}

// Format names an export document format.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
	FormatXML  Format = "xml"
)

// Result describes a finished export.
type Result struct {
	// Format is the document format written.
	Format Format

	// Path is the file that was written, extension included.
	Path string

	// InvoiceNumber is the number stamped on the document.
	InvoiceNumber string

	// Items is the number of line items exported.
	Items int

	// Totals are the totals written to the document.
	Totals types.Totals

	// Duration is the time spent in the adapter.
	Duration time.Duration
}

// ExportPDF writes the bill as a PDF invoice. An empty path generates a file
// name in the configured output directory. Adapter failures are returned as
// *pdfwriter.ExportError.
func (s *Session) ExportPDF(ctx context.Context, path string) (Result, error) {
	return s.export(ctx, FormatPDF, path, func(target string, bill types.Bill, totals types.Totals) (string, error) {
		return pdfwriter.Export(target, bill, totals, s.documentOptions())
	})
}

// ExportXLSX writes the bill as an XLSX workbook. Adapter failures are
// returned as *xlsxwriter.ExportError.
func (s *Session) ExportXLSX(ctx context.Context, path string) (Result, error) {
	return s.export(ctx, FormatXLSX, path, func(target string, bill types.Bill, totals types.Totals) (string, error) {
		return xlsxwriter.Export(target, bill, totals, s.documentOptions())
	})
}

// ExportXML writes the bill as an XML invoice. Adapter failures are returned
// as *xmlwriter.ExportError.
func (s *Session) ExportXML(ctx context.Context, path string) (Result, error) {
	return s.export(ctx, FormatXML, path, func(target string, bill types.Bill, totals types.Totals) (string, error) {
		opts := xmlwriter.DefaultGenerateOptions()
		opts.CurrencySymbol = s.cfg.CurrencySymbol
		return xmlwriter.Export(target, bill, totals, opts)
	})
}

// Print sends the receipt text to a printer device chosen by selector.
// A nil selector picks the first available device. Cancelling the device
// selection is not an error: the returned result has Canceled set.
func (s *Session) Print(ctx context.Context, selector printer.Selector) (printer.Result, error) {
	bill, err := s.begin()
	if err != nil {
		return printer.Result{}, err
	}
	defer s.end()

	text := s.formatter.Format(bill, billing.ComputeBill(bill))
	return s.printer.Print(ctx, text, selector)
}

// Devices returns the print devices that are available now.
func (s *Session) Devices() []printer.Device {
	return s.printer.Available()
}

type exportFunc func(path string, bill types.Bill, totals types.Totals) (string, error)

func (s *Session) export(ctx context.Context, format Format, path string, write exportFunc) (Result, error) {
	bill, err := s.begin()
	if err != nil {
		return Result{Format: format}, err
	}
	defer s.end()

	if err := ctx.Err(); err != nil {
		return Result{Format: format}, err
	}

	start := time.Now()
	bill.InvoiceNumber = s.newNumber()
	totals := billing.ComputeBill(bill)
	target := s.output.Resolve(path, "."+string(format), bill.CustomerName())

	s.log.Info("Exporting %s invoice %s to %s", format, bill.InvoiceNumber, target)

	written, err := write(target, bill, totals)
	if err != nil {
		s.log.Error("Export failed: %v", err)
		return Result{Format: format}, err
	}

	result := Result{
		Format:        format,
		Path:          written,
		InvoiceNumber: bill.InvoiceNumber,
		Items:         len(bill.Items),
		Totals:        totals,
		Duration:      time.Since(start),
	}
	s.log.Info("Exported %d items to %s in %v", result.Items, result.Path, result.Duration)
	return result, nil
}

// begin takes the snapshot for an export or print and marks the session
// busy. The caller must call end.
func (s *Session) begin() (types.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy {
		return types.Bill{}, ErrBusy
	}
	if s.store.Len() == 0 {
		s.log.Warn("Export rejected: %v", ErrNothingToExport)
		return types.Bill{}, ErrNothingToExport
	}

	s.busy = true
	return s.snapshotLocked(), nil
}

func (s *Session) end() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}

func (s *Session) documentOptions() pdfwriter.Options {
	return pdfwriter.Options{
		ShopName:       s.cfg.ShopName,
		CurrencySymbol: s.cfg.CurrencySymbol,
		DateFormat:     s.cfg.DateFormat,
		Footer:         s.cfg.Footer,
	}
}
