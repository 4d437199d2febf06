// =============================================================================
// SmartBill - Render Command
// =============================================================================
//
// This file defines the 'render' command: the batch counterpart of the
// interactive session. It loads a bill file, prints the receipt to stdout and
// writes any requested documents.
//
// COMMAND USAGE:
//   smartbill render --bill <file> [flags]
//
// FLAGS:
//   --bill       : Bill file (.yaml bill, .csv or .xlsx item sheet)
//   --customer   : Override the customer name
//   --discount   : Override the discount rate
//   --tax        : Override the tax rate
//   --pdf        : Write a PDF invoice to this path
//   --xlsx       : Write an XLSX invoice to this path
//   --xml        : Write an XML invoice to this path
//   --xsd        : Write the XML invoice schema to this path
//   --receipt    : Write the receipt text to this path
//   --print      : Print the receipt on the first available device
//   --device     : Print on the device whose name starts with this prefix
//   --delimiter  : CSV delimiter
//   --sheet      : XLSX sheet name
//   --quiet      : Do not echo the receipt to stdout
//
// PIPELINE:
//   1. Load the bill file into a session
//   2. Apply command-line overrides
//   3. Echo the receipt
//   4. Write each requested output
//   5. Print a summary
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/smartbill/internal/billing"
	"github.com/ginjaninja78/smartbill/internal/printer"
	"github.com/ginjaninja78/smartbill/internal/session"
	"github.com/ginjaninja78/smartbill/internal/xmlwriter"
	"github.com/ginjaninja78/smartbill/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

type renderFlags struct {
	bill      string
	customer  string
	discount  string
	tax       string
	pdf       string
	xlsx      string
	xml       string
	xsd       string
	receipt   string
	print     bool
	device    string
	delimiter string
	sheet     string
	quiet     bool
}

var renderOpts renderFlags

// =============================================================================
// RENDER COMMAND DEFINITION
// =============================================================================

// renderCmd represents the 'render' command.
var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a bill file to receipt, PDF, XLSX or XML",
	Long: `The render command loads a bill from a YAML bill file or a CSV/XLSX item
sheet, prints the receipt to stdout and writes the requested documents.

Item rows are validated exactly as in the interactive session; the first
rejected row aborts the render with its row number. Rates are lenient:
unparsable values count as zero.

Example:
  smartbill render --bill bill.yaml --pdf invoice --xml invoice
  smartbill render --bill items.csv --customer "Acme" --tax 5 --print
  smartbill render --bill bill.yaml --device pdf`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runRender(cmd, renderOpts)
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)

	f := renderCmd.Flags()
	f.StringVar(&renderOpts.bill, "bill", "", "Bill file (.yaml, .csv or .xlsx)")
	f.StringVar(&renderOpts.customer, "customer", "", "Customer name (overrides the bill file)")
	f.StringVar(&renderOpts.discount, "discount", "", "Discount rate in percent (overrides the bill file)")
	f.StringVar(&renderOpts.tax, "tax", "", "Tax rate in percent (overrides the bill file)")
	f.StringVar(&renderOpts.pdf, "pdf", "", "Write a PDF invoice to this path")
	f.StringVar(&renderOpts.xlsx, "xlsx", "", "Write an XLSX invoice to this path")
	f.StringVar(&renderOpts.xml, "xml", "", "Write an XML invoice to this path")
	f.StringVar(&renderOpts.xsd, "xsd", "", "Write the XML invoice schema to this path")
	f.StringVar(&renderOpts.receipt, "receipt", "", "Write the receipt text to this path")
	f.BoolVar(&renderOpts.print, "print", false, "Print the receipt on the first available device")
	f.StringVar(&renderOpts.device, "device", "", "Print on the device whose name starts with this prefix (implies --print)")
	f.StringVar(&renderOpts.delimiter, "delimiter", ",", "CSV delimiter")
	f.StringVar(&renderOpts.sheet, "sheet", "", "XLSX sheet name (default: first sheet)")
	f.BoolVarP(&renderOpts.quiet, "quiet", "q", false, "Do not echo the receipt")

	renderCmd.MarkFlagRequired("bill")
}

// =============================================================================
// MAIN RENDER FUNCTION
// =============================================================================

func runRender(cmd *cobra.Command, opts renderFlags) error {
	startTime := time.Now()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()
	status := cmd.ErrOrStderr()

	// STEP 1: LOAD THE BILL

	src, err := session.LoadSource(opts.bill, session.SourceOptions{
		Delimiter: opts.delimiter,
		Sheet:     opts.sheet,
	})
	if err != nil {
		return err
	}

	sess := session.New(session.Options{Config: appConfig, Log: appLog})
	if err := sess.Apply(src); err != nil {
		return err
	}

	// STEP 2: OVERRIDES

	if cmd.Flags().Changed("customer") {
		if err := sess.SetCustomer(opts.customer); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("discount") {
		if err := sess.SetDiscount(opts.discount); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("tax") {
		if err := sess.SetTax(opts.tax); err != nil {
			return err
		}
	}

	// STEP 3: RECEIPT

	receipt := sess.Preview()
	if !opts.quiet {
		fmt.Fprint(out, receipt)
	}

	// STEP 4: OUTPUTS

	var written []string

	if opts.receipt != "" {
		path, err := utils.WriteTextFile(utils.EnsureExtension(opts.receipt, ".txt"), receipt)
		if err != nil {
			return err
		}
		written = append(written, path)
	}

	exports := []struct {
		path string
		fn   func(context.Context, string) (session.Result, error)
	}{
		{opts.pdf, sess.ExportPDF},
		{opts.xlsx, sess.ExportXLSX},
		{opts.xml, sess.ExportXML},
	}
	for _, e := range exports {
		if e.path == "" {
			continue
		}
		res, err := e.fn(ctx, e.path)
		if err != nil {
			return err
		}
		written = append(written, res.Path)
	}

	if opts.xsd != "" {
		path := utils.EnsureExtension(opts.xsd, ".xsd")
		if err := utils.EnsureDirectory(filepath.Dir(path)); err != nil {
			return err
		}
		if err := os.WriteFile(path, xmlwriter.GenerateXSD(), 0o644); err != nil {
			return fmt.Errorf("failed to write schema: %w", err)
		}
		written = append(written, path)
	}

	if opts.print || opts.device != "" {
		var selector printer.Selector
		if opts.device != "" {
			selector = printer.ByName(opts.device)
		}
		res, err := sess.Print(ctx, selector)
		if err != nil {
			return err
		}
		fmt.Fprintf(status, "Printed on %s\n", res.Device)
		if res.Page.Truncated() {
			fmt.Fprintf(status, "warning: %d receipt lines did not fit on the page\n", res.Page.Dropped)
		}
	}

	// STEP 5: SUMMARY

	totals := sess.Totals()
	fmt.Fprintln(status, "=== Render Complete ===")
	fmt.Fprintf(status, "Items:        %d\n", len(sess.Items()))
	fmt.Fprintf(status, "Grand total:  %s\n", billing.FormatMoney(appConfig.CurrencySymbol, totals.GrandTotal))
	for _, path := range written {
		fmt.Fprintf(status, "  ✓ %s\n", path)
	}
	fmt.Fprintf(status, "Time elapsed: %s\n", time.Since(startTime))

	return nil
}
