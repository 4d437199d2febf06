// =============================================================================
// SmartBill - Session Command
// =============================================================================
//
// This file defines the 'session' command: an interactive prompt for building
// one bill at a time. Each command maps onto one bill operation.
//
// COMMAND USAGE:
//   smartbill session
//
// PROMPT COMMANDS:
//   customer <name>           Set the customer (blank for walk-in)
//   name|price|qty <value>    Stage an item field
//   add [<name> <price> <qty>] Add the given or staged item
//   remove                    Remove the last item
//   clear                     Remove every item
//   clear-inputs              Clear the staged item fields
//   discount <rate>           Set the discount percentage
//   tax <rate>                Set the tax percentage
//   recalc                    Show the totals
//   preview                   Show the receipt
//   items                     List the items
//   import <file>             Add the items of a CSV/XLSX sheet or bill file
//   export [path]             Export a PDF invoice
//   export-xlsx [path]        Export an XLSX invoice
//   export-xml [path]         Export an XML invoice
//   print                     Print the receipt
//   new                       Start a new bill (asks for confirmation)
//   about | help | exit
//
// ERRORS:
//   Every failure is reported inline and the prompt returns, so the bill is
//   always editable after an error.
//
// =============================================================================

package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/smartbill/internal/billing"
	"github.com/ginjaninja78/smartbill/internal/lineitems"
	"github.com/ginjaninja78/smartbill/internal/printer"
	"github.com/ginjaninja78/smartbill/internal/session"
)

// sessionCmd represents the 'session' command.
var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Build a bill interactively",
	Long: `Start an interactive billing session. Type 'help' at the prompt for the
list of commands. 'new' and 'exit' ask for confirmation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess := session.New(session.Options{Config: appConfig, Log: appLog})
		r := newREPL(sess, cmd.InOrStdin(), cmd.OutOrStdout(), appConfig.CurrencySymbol)
		return r.run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
}

// =============================================================================
// REPL
// =============================================================================

// stagedItem holds item fields typed one at a time.
type stagedItem struct {
	name, price, qty string
}

type repl struct {
	sess     *session.Session
	in       *bufio.Scanner
	out      io.Writer
	currency string
	staged   stagedItem
}

func newREPL(sess *session.Session, in io.Reader, out io.Writer, currency string) *repl {
	return &repl{
		sess:     sess,
		in:       bufio.NewScanner(in),
		out:      out,
		currency: currency,
	}
}

// errExit ends the loop.
var errExit = errors.New("exit")

func (r *repl) run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	fmt.Fprintln(r.out, session.About())
	fmt.Fprintln(r.out, "Type 'help' for commands.")

	for {
		fmt.Fprint(r.out, "> ")
		if !r.in.Scan() {
			fmt.Fprintln(r.out)
			return r.in.Err()
		}

		line := strings.TrimSpace(r.in.Text())
		if line == "" {
			continue
		}

		if err := r.dispatch(ctx, line); err != nil {
			if errors.Is(err, errExit) {
				return nil
			}
			r.report(err)
		}
	}
}

// report prints a failure inline. Removing from an empty bill is a warning;
// everything else is an error.
func (r *repl) report(err error) {
	if errors.Is(err, lineitems.ErrEmptyStore) {
		fmt.Fprintf(r.out, "warning: %v\n", err)
		return
	}
	fmt.Fprintf(r.out, "error: %v\n", err)
}

func (r *repl) dispatch(ctx context.Context, line string) error {
	command, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	args := strings.Fields(rest)

	switch strings.ToLower(command) {
	case "customer":
		if err := r.sess.SetCustomer(rest); err != nil {
			return err
		}
		fmt.Fprintf(r.out, "Customer: %s\n", r.sess.Snapshot().CustomerName())

	case "name":
		r.staged.name = rest
	case "price":
		r.staged.price = rest
	case "qty":
		r.staged.qty = rest

	case "add":
		return r.add(args)

	case "remove":
		item, err := r.sess.RemoveLast()
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "Removed: %s\n", item.Name)
		r.showTotals()

	case "clear":
		if err := r.sess.ClearItems(); err != nil {
			return err
		}
		fmt.Fprintln(r.out, "All items removed")
		r.showTotals()

	case "clear-inputs":
		r.staged = stagedItem{}

	case "discount":
		if err := r.sess.SetDiscount(rest); err != nil {
			return err
		}
		r.showTotals()

	case "tax":
		if err := r.sess.SetTax(rest); err != nil {
			return err
		}
		r.showTotals()

	case "recalc":
		r.showTotals()

	case "preview":
		fmt.Fprint(r.out, r.sess.Preview())

	case "items":
		r.showItems()

	case "import":
		return r.importFile(rest)

	case "export":
		return r.export(ctx, r.sess.ExportPDF, rest)
	case "export-xlsx":
		return r.export(ctx, r.sess.ExportXLSX, rest)
	case "export-xml":
		return r.export(ctx, r.sess.ExportXML, rest)

	case "print":
		return r.print(ctx)

	case "new":
		if r.sess.Busy() {
			return session.ErrBusy
		}
		err := r.sess.NewBill(r.confirm("Start a new customer bill? All current data will be lost."))
		if errors.Is(err, session.ErrNotConfirmed) {
			return nil
		}
		if err != nil {
			return err
		}
		r.staged = stagedItem{}
		fmt.Fprintln(r.out, "New bill started")

	case "about":
		fmt.Fprintln(r.out, session.About())

	case "help", "?":
		fmt.Fprint(r.out, helpText)

	case "exit", "quit":
		if r.confirm("Are you sure you want to exit?") {
			return errExit
		}

	default:
		return fmt.Errorf("unknown command %q (type 'help')", command)
	}

	return nil
}

func (r *repl) add(args []string) error {
	in := r.staged
	if len(args) > 0 {
		if len(args) < 3 {
			return fmt.Errorf("usage: add <name> <price> <qty>")
		}
		in = stagedItem{
			name:  strings.Join(args[:len(args)-2], " "),
			price: args[len(args)-2],
			qty:   args[len(args)-1],
		}
	}

	item, err := r.sess.AddItem(in.name, in.price, in.qty)
	if err != nil {
		return err
	}

	r.staged = stagedItem{}
	fmt.Fprintf(r.out, "Added: %s\n", item.Name)
	r.showTotals()
	return nil
}

func (r *repl) importFile(path string) error {
	if path == "" {
		return fmt.Errorf("usage: import <file>")
	}
	src, err := session.LoadSource(path, session.SourceOptions{})
	if err != nil {
		return err
	}
	if err := r.sess.Apply(src); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Imported %d items from %s\n", len(src.Items), path)
	r.showTotals()
	return nil
}

func (r *repl) export(ctx context.Context, fn func(context.Context, string) (session.Result, error), path string) error {
	res, err := fn(ctx, path)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "%s saved: %s\n", strings.ToUpper(string(res.Format)), res.Path)
	return nil
}

func (r *repl) print(ctx context.Context) error {
	res, err := r.sess.Print(ctx, r.selectDevice)
	if err != nil {
		return err
	}
	if res.Canceled {
		fmt.Fprintln(r.out, "Print canceled")
		return nil
	}
	fmt.Fprintf(r.out, "Printed on %s\n", res.Device)
	if res.Page.Truncated() {
		fmt.Fprintf(r.out, "warning: receipt did not fit on one page, %d lines were not printed\n", res.Page.Dropped)
	}
	return nil
}

// selectDevice asks which device to print on. A blank answer cancels.
func (r *repl) selectDevice(devices []printer.Device) (printer.Device, error) {
	for i, d := range devices {
		fmt.Fprintf(r.out, "  %d) %s\n", i+1, d.Name())
	}
	fmt.Fprint(r.out, "Print on [1-"+strconv.Itoa(len(devices))+", blank to cancel]: ")

	if !r.in.Scan() {
		return nil, printer.ErrCanceled
	}
	answer := strings.TrimSpace(r.in.Text())
	if answer == "" {
		return nil, printer.ErrCanceled
	}

	n, err := strconv.Atoi(answer)
	if err != nil || n < 1 || n > len(devices) {
		return nil, fmt.Errorf("invalid device choice %q", answer)
	}
	return devices[n-1], nil
}

// confirm asks a yes/no question; anything but y/yes is a no.
func (r *repl) confirm(question string) bool {
	fmt.Fprintf(r.out, "%s [y/N]: ", question)
	if !r.in.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(r.in.Text()))
	return answer == "y" || answer == "yes"
}

func (r *repl) showTotals() {
	t := r.sess.Totals()
	fmt.Fprintf(r.out, "Subtotal: %s  Discount: -%s  Tax: %s  Total: %s\n",
		billing.FormatMoney(r.currency, t.Subtotal),
		billing.FormatMoney(r.currency, t.DiscountAmount),
		billing.FormatMoney(r.currency, t.TaxAmount),
		billing.FormatMoney(r.currency, t.GrandTotal))
}

func (r *repl) showItems() {
	items := r.sess.Items()
	if len(items) == 0 {
		fmt.Fprintln(r.out, "No items")
		return
	}
	for i, item := range items {
		fmt.Fprintf(r.out, "%3d. %-20s %10s x%3d = %12s\n",
			i+1, item.Name,
			billing.FormatAmount(item.UnitPrice),
			item.Quantity,
			billing.FormatAmount(billing.Round(item.LineTotal())))
	}
}

const helpText = `Commands:
  customer <name>             Set the customer (blank for walk-in)
  name | price | qty <value>  Stage an item field
  add [<name> <price> <qty>]  Add the given or staged item
  remove                      Remove the last item
  clear                       Remove every item
  clear-inputs                Clear the staged item fields
  discount <rate>             Set the discount percentage
  tax <rate>                  Set the tax percentage
  recalc                      Show the totals
  preview                     Show the receipt
  items                       List the items
  import <file>               Add items from a CSV/XLSX sheet or YAML bill
  export [path]               Export a PDF invoice
  export-xlsx [path]          Export an XLSX invoice
  export-xml [path]           Export an XML invoice
  print                       Print the receipt
  new                         Start a new bill
  about                       Show product information
  exit                        Leave the session
`
