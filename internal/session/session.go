// =============================================================================
// SmartBill - Bill Session
// =============================================================================
//
// This module owns the bill being built. Every surface (interactive session,
// batch render, feature tests) drives the bill through a Session.
//
// BILL LIFECYCLE:
//   Empty ──edit──▶ Building ──edit──▶ Building
//     ▲                          │
//     └──── NewBill(confirmed) ──┘
//
// EXPORT / PRINT PIPELINE:
//   1. Reject when another export or print is in flight (ErrBusy)
//   2. Reject when the bill has no items (ErrNothingToExport)
//   3. Take a read-only snapshot and mark the session busy
//   4. Release the lock and run the adapter
//   5. Clear the busy flag
//
// CONCURRENCY:
//   All state is guarded by one mutex. While an export or print is running
//   every mutation fails with ErrBusy, so the snapshot being written never
//   diverges from the bill it was taken from.
//
// =============================================================================

package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ginjaninja78/smartbill/internal/billing"
	"github.com/ginjaninja78/smartbill/internal/config"
	"github.com/ginjaninja78/smartbill/internal/lineitems"
	"github.com/ginjaninja78/smartbill/internal/logger"
	"github.com/ginjaninja78/smartbill/internal/printer"
	"github.com/ginjaninja78/smartbill/internal/receipt"
	"github.com/ginjaninja78/smartbill/internal/types"
	"github.com/ginjaninja78/smartbill/internal/validation"
	"github.com/ginjaninja78/smartbill/pkg/utils"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrBusy is returned for any edit, export or print issued while an
	// export or print is in flight.
	ErrBusy = errors.New("an export or print is already in progress")

	// ErrNothingToExport is returned by export and print on a bill with no
	// items. No adapter is invoked.
	ErrNothingToExport = errors.New("nothing to export: the bill has no items")

	// ErrNotConfirmed is returned by NewBill when the reset was not confirmed.
	ErrNotConfirmed = errors.New("new bill not confirmed")
)

// ImportError reports the first rejected row of an item import.
type ImportError struct {
	// Row is the 1-based source row, or the position in the input when the
	// source row is unknown.
	Row int

	Err error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *ImportError) Unwrap() error { return e.Err }

// =============================================================================
// STATE
// =============================================================================

// State is the bill lifecycle state.
type State int

const (
	// StateEmpty is a fresh bill: no items, no customer and default rates.
	StateEmpty State = iota

	// StateBuilding is a bill with at least one edit.
	StateBuilding
)

func (s State) String() string {
	if s == StateBuilding {
		return "building"
	}
	return "empty"
}

// defaultRate is the rate field text of a fresh bill.
const defaultRate = "0"

// =============================================================================
// SESSION
// =============================================================================

// Options configures a Session. Zero values fall back to defaults.
type Options struct {
	// Config supplies shop details, output naming and print settings.
	Config *config.Config

	// Log receives session events. Defaults to a no-op logger.
	Log logger.Logger

	// Printer prints receipts. Defaults to a printer built from Config.
	Printer *printer.Printer

	// Clock returns the current time for bill timestamps.
	Clock func() time.Time

	// NewInvoiceNumber generates the number stamped on exported documents.
	NewInvoiceNumber func() string
}

// Session holds the single bill being built.
type Session struct {
	mu   sync.Mutex
	busy bool

	customer     string
	store        *lineitems.Store
	discountText string
	taxText      string
	edited       bool

	cfg       *config.Config
	formatter *receipt.Formatter
	output    *utils.OutputManager
	printer   *printer.Printer
	log       logger.Logger
	clock     func() time.Time
	newNumber func() string
}

// New creates a session with an empty bill.
func New(opts Options) *Session {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	log = logger.Component(log, "session")

	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	newNumber := opts.NewInvoiceNumber
	if newNumber == nil {
		newNumber = newInvoiceNumber
	}

	prn := opts.Printer
	if prn == nil {
		prn = printer.FromConfig(cfg.Print, opts.Log)
	}

	output := utils.NewOutputManager(cfg.OutputDir, cfg.FileNameFormat)
	output.Now = clock

	return &Session{
		store:        lineitems.New(),
		discountText: defaultRate,
		taxText:      defaultRate,
		cfg:          cfg,
		formatter:    receipt.NewFormatter(cfg.ShopName, cfg.Footer, cfg.DateFormat),
		output:       output,
		printer:      prn,
		log:          log,
		clock:        clock,
		newNumber:    newNumber,
	}
}

// newInvoiceNumber returns "INV-" followed by the first eight hex digits of
// a random UUID.
func newInvoiceNumber() string {
	return "INV-" + strings.ToUpper(uuid.NewString()[:8])
}

// =============================================================================
// EDITS
// =============================================================================

// edit runs fn under the lock unless an export or print is in flight.
func (s *Session) edit(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy {
		s.log.Warn("Edit rejected: %v", ErrBusy)
		return ErrBusy
	}
	if err := fn(); err != nil {
		return err
	}
	s.edited = true
	return nil
}

// SetCustomer sets the customer name. A blank name prints as the walk-in
// customer.
func (s *Session) SetCustomer(name string) error {
	return s.edit(func() error {
		s.customer = name
		s.log.Debug("Customer set to %q", name)
		return nil
	})
}

// AddItem validates raw item text and appends the item. Invalid input
// returns a *validation.ValidationError and leaves the bill unchanged.
func (s *Session) AddItem(name, priceText, qtyText string) (types.LineItem, error) {
	var item types.LineItem
	err := s.edit(func() error {
		var err error
		item, err = s.store.AddInput(name, priceText, qtyText)
		if err != nil {
			s.log.Debug("Item rejected: %v", err)
			return err
		}
		s.log.Debug("Added %s (%s x %d)", item.Name, item.UnitPrice, item.Quantity)
		return nil
	})
	return item, err
}

// parseInputs validates every row without touching the bill. The first
// rejected row gives an *ImportError.
func (s *Session) parseInputs(inputs []types.ItemInput) ([]types.LineItem, error) {
	items := make([]types.LineItem, 0, len(inputs))
	for i, in := range inputs {
		item, err := validation.ParseItem(in.Name, in.Price, in.Quantity)
		if err != nil {
			row := in.Row
			if row == 0 {
				row = i + 1
			}
			s.log.Warn("Import rejected at row %d: %v", row, err)
			return nil, &ImportError{Row: row, Err: err}
		}
		items = append(items, item)
	}
	return items, nil
}

// addParsed appends validated items. Callers hold the lock.
func (s *Session) addParsed(items []types.LineItem) error {
	for _, item := range items {
		if _, err := s.store.Add(item.Name, item.UnitPrice, item.Quantity); err != nil {
			return err
		}
	}
	s.log.Info("Imported %d items", len(items))
	return nil
}

// RemoveLast removes the most recently added item. On an empty bill it
// returns a *lineitems.EmptyStoreError.
func (s *Session) RemoveLast() (types.LineItem, error) {
	var item types.LineItem
	err := s.edit(func() error {
		var err error
		item, err = s.store.RemoveLast()
		if err != nil {
			s.log.Debug("Remove rejected: %v", err)
			return err
		}
		s.log.Debug("Removed %s", item.Name)
		return nil
	})
	return item, err
}

// ClearItems removes every item.
func (s *Session) ClearItems() error {
	return s.edit(func() error {
		s.store.Clear()
		s.log.Debug("Items cleared")
		return nil
	})
}

// SetDiscount stores the discount rate text. Unparsable or negative text
// counts as zero.
func (s *Session) SetDiscount(text string) error {
	return s.edit(func() error {
		s.discountText = text
		s.log.Debug("Discount rate set to %s", billing.ParseRate(text))
		return nil
	})
}

// SetTax stores the tax rate text. Unparsable or negative text counts as
// zero.
func (s *Session) SetTax(text string) error {
	return s.edit(func() error {
		s.taxText = text
		s.log.Debug("Tax rate set to %s", billing.ParseRate(text))
		return nil
	})
}

// NewBill resets the bill to empty. Without confirmation it returns
// ErrNotConfirmed and nothing changes.
func (s *Session) NewBill(confirmed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy {
		return ErrBusy
	}
	if !confirmed {
		return ErrNotConfirmed
	}

	s.customer = ""
	s.store.Clear()
	s.discountText = defaultRate
	s.taxText = defaultRate
	s.edited = false
	s.log.Info("New bill started")
	return nil
}

// =============================================================================
// READS
// =============================================================================

// State returns the lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.edited || s.store.Len() > 0 {
		return StateBuilding
	}
	return StateEmpty
}

// Busy reports whether an export or print is in flight.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Items returns the items in insertion order.
func (s *Session) Items() []types.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Items()
}

// Snapshot returns a read-only copy of the bill stamped with the current
// time. The invoice number is left empty.
func (s *Session) Snapshot() types.Bill {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() types.Bill {
	return types.Bill{
		Customer:     s.customer,
		Items:        s.store.Items(),
		DiscountRate: billing.ParseRate(s.discountText),
		TaxRate:      billing.ParseRate(s.taxText),
		Timestamp:    s.clock(),
	}
}

// Totals recomputes the totals of the current bill.
func (s *Session) Totals() types.Totals {
	return billing.ComputeBill(s.Snapshot())
}

// Preview renders the receipt text of the current bill.
func (s *Session) Preview() string {
	bill := s.Snapshot()
	return s.formatter.Format(bill, billing.ComputeBill(bill))
}

// About returns the product banner.
func (s *Session) About() string {
	return About()
}
