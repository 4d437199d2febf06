package session

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ginjaninja78/smartbill/internal/config"
	"github.com/ginjaninja78/smartbill/internal/lineitems"
	"github.com/ginjaninja78/smartbill/internal/pdfwriter"
	"github.com/ginjaninja78/smartbill/internal/printer"
	"github.com/ginjaninja78/smartbill/internal/types"
	"github.com/ginjaninja78/smartbill/internal/validation"
	"github.com/ginjaninja78/smartbill/internal/xmlwriter"
)

var fixedTime = time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

type blockingDevice struct {
	started chan struct{}
	release chan struct{}
	text    string
}

func (d *blockingDevice) Name() string    { return "blocking" }
func (d *blockingDevice) Available() bool { return true }
func (d *blockingDevice) Print(ctx context.Context, job printer.Job) error {
	d.text = job.Page.Text()
	if d.started != nil {
		close(d.started)
		<-d.release
	}
	return nil
}

func newSession(t *testing.T, devices ...printer.Device) *Session {
	t.Helper()
	cfg := config.Default()
	cfg.OutputDir = t.TempDir()
	return New(Options{
		Config:           cfg,
		Printer:          printer.New(printer.DefaultLayout, nil, devices...),
		Clock:            func() time.Time { return fixedTime },
		NewInvoiceNumber: func() string { return "INV-TEST" },
	})
}

func addScenarioItems(t *testing.T, s *Session) {
	t.Helper()
	if _, err := s.AddItem("Pen", "10.00", "3"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddItem("Notebook", "50.00", "2"); err != nil {
		t.Fatal(err)
	}
}

func TestSession_Scenario(t *testing.T) {
	s := newSession(t)
	addScenarioItems(t, s)
	s.SetDiscount("10")
	s.SetTax("5")

	totals := s.Totals()
	want := map[string]string{
		"subtotal": "130",
		"discount": "13",
		"tax":      "6.5",
		"grand":    "123.5",
	}
	got := map[string]string{
		"subtotal": totals.Subtotal.String(),
		"discount": totals.DiscountAmount.String(),
		"tax":      totals.TaxAmount.String(),
		"grand":    totals.GrandTotal.String(),
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s: got %s, want %s", k, got[k], v)
		}
	}
}

func TestSession_States(t *testing.T) {
	s := newSession(t)
	if s.State() != StateEmpty {
		t.Fatalf("expected empty, got %v", s.State())
	}

	s.SetTax("5")
	if s.State() != StateBuilding {
		t.Fatalf("expected building after edit, got %v", s.State())
	}

	if err := s.NewBill(false); !errors.Is(err, ErrNotConfirmed) {
		t.Fatalf("expected ErrNotConfirmed, got %v", err)
	}
	if s.State() != StateBuilding {
		t.Error("unconfirmed reset changed state")
	}

	if err := s.NewBill(true); err != nil {
		t.Fatal(err)
	}
	if s.State() != StateEmpty || !s.Snapshot().TaxRate.IsZero() {
		t.Errorf("expected a fresh bill, got %v", s.Snapshot())
	}
}

func TestSession_InvalidItemLeavesBillUnchanged(t *testing.T) {
	s := newSession(t)
	addScenarioItems(t, s)
	before := s.Totals()

	tests := []struct {
		name, price, qty string
		rule             string
	}{
		{"  ", "10", "1", validation.RuleEmptyName},
		{"Pen", "-5", "2", validation.RuleNonPositive},
		{"Pen", "abc", "2", validation.RuleNonNumeric},
		{"Pen", "5", "2.5", validation.RuleNonNumeric},
	}
	for _, tt := range tests {
		_, err := s.AddItem(tt.name, tt.price, tt.qty)
		var ve *validation.ValidationError
		if !errors.As(err, &ve) || ve.Rule != tt.rule {
			t.Errorf("AddItem(%q, %q, %q): expected rule %q, got %v", tt.name, tt.price, tt.qty, tt.rule, err)
		}
	}

	if len(s.Items()) != 2 || !s.Totals().GrandTotal.Equal(before.GrandTotal) {
		t.Error("bill changed after rejected items")
	}
}

func TestSession_AddThenRemoveRestoresTotals(t *testing.T) {
	s := newSession(t)
	addScenarioItems(t, s)
	before := s.Totals()

	if _, err := s.AddItem("Stapler", "99.99", "1"); err != nil {
		t.Fatal(err)
	}
	item, err := s.RemoveLast()
	if err != nil {
		t.Fatal(err)
	}
	if item.Name != "Stapler" {
		t.Errorf("removed wrong item %q", item.Name)
	}
	after := s.Totals()
	if !after.Subtotal.Equal(before.Subtotal) || !after.GrandTotal.Equal(before.GrandTotal) {
		t.Errorf("totals not restored: %v vs %v", after, before)
	}
	if len(s.Items()) != 2 {
		t.Errorf("expected 2 items, got %d", len(s.Items()))
	}
}

func TestSession_RemoveLastOnEmpty(t *testing.T) {
	s := newSession(t)
	_, err := s.RemoveLast()
	if !errors.Is(err, lineitems.ErrEmptyStore) {
		t.Fatalf("expected ErrEmptyStore, got %v", err)
	}
	if len(s.Items()) != 0 {
		t.Error("store not empty")
	}
}

func TestSession_LenientRates(t *testing.T) {
	s := newSession(t)
	addScenarioItems(t, s)
	s.SetDiscount("ten")
	s.SetTax("-3")

	totals := s.Totals()
	if !totals.GrandTotal.Equal(totals.Subtotal) {
		t.Errorf("expected grand total to equal subtotal, got %v", totals)
	}
}

func TestSession_PreviewMatchesPrint(t *testing.T) {
	dev := &blockingDevice{}
	s := newSession(t, dev)
	addScenarioItems(t, s)
	s.SetCustomer("Asha")

	preview := s.Preview()
	if _, err := s.Print(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	if dev.text != preview {
		t.Errorf("printed text differs from preview:\n%s\n---\n%s", dev.text, preview)
	}
	if !strings.Contains(preview, "Customer: Asha") {
		t.Errorf("preview missing customer: %s", preview)
	}
}

func TestSession_ExportRejectsEmptyBill(t *testing.T) {
	s := newSession(t, &blockingDevice{})
	path := filepath.Join(t.TempDir(), "invoice")

	if _, err := s.ExportPDF(context.Background(), path); !errors.Is(err, ErrNothingToExport) {
		t.Errorf("ExportPDF: expected ErrNothingToExport, got %v", err)
	}
	if _, err := s.ExportXLSX(context.Background(), path); !errors.Is(err, ErrNothingToExport) {
		t.Errorf("ExportXLSX: expected ErrNothingToExport, got %v", err)
	}
	if _, err := s.Print(context.Background(), nil); !errors.Is(err, ErrNothingToExport) {
		t.Errorf("Print: expected ErrNothingToExport, got %v", err)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 0 {
		t.Errorf("expected no files, found %d", len(entries))
	}
}

func TestSession_ExportPDF(t *testing.T) {
	s := newSession(t)
	addScenarioItems(t, s)
	path := filepath.Join(t.TempDir(), "invoice")

	res, err := s.ExportPDF(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if res.Path != path+".pdf" || res.Items != 2 || res.InvoiceNumber != "INV-TEST" {
		t.Errorf("unexpected result %+v", res)
	}

	data, err := os.ReadFile(res.Path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("not a PDF")
	}
	if s.Busy() {
		t.Error("session still busy after export")
	}
}

func TestSession_ExportGeneratesFileName(t *testing.T) {
	s := newSession(t)
	addScenarioItems(t, s)

	res, err := s.ExportXLSX(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(s.cfg.OutputDir, "Invoice_1709289000000.xlsx")
	if res.Path != want {
		t.Errorf("got %s, want %s", res.Path, want)
	}
}

func TestSession_ExportXMLRoundTrip(t *testing.T) {
	s := newSession(t)
	addScenarioItems(t, s)
	s.SetDiscount("10")
	s.SetTax("5")

	res, err := s.ExportXML(context.Background(), filepath.Join(t.TempDir(), "invoice"))
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(res.Path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `number="INV-TEST"`) || !strings.Contains(string(data), "<grandTotal>123.50</grandTotal>") {
		t.Errorf("unexpected XML:\n%s", data)
	}
}

func TestSession_ExportFailureLeavesBill(t *testing.T) {
	s := newSession(t)
	addScenarioItems(t, s)

	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := s.ExportPDF(context.Background(), filepath.Join(blocker, "invoice"))
	var exportErr *pdfwriter.ExportError
	if !errors.As(err, &exportErr) {
		t.Fatalf("expected *pdfwriter.ExportError, got %v", err)
	}
	if len(s.Items()) != 2 || s.Busy() {
		t.Error("bill changed or session stuck busy after failed export")
	}

	_, err = s.ExportXML(context.Background(), filepath.Join(blocker, "invoice"))
	var xmlErr *xmlwriter.ExportError
	if !errors.As(err, &xmlErr) {
		t.Fatalf("expected *xmlwriter.ExportError, got %v", err)
	}
}

func TestSession_EditsRejectedWhileBusy(t *testing.T) {
	dev := &blockingDevice{started: make(chan struct{}), release: make(chan struct{})}
	s := newSession(t, dev)
	addScenarioItems(t, s)

	done := make(chan error, 1)
	go func() {
		_, err := s.Print(context.Background(), nil)
		done <- err
	}()
	<-dev.started

	if !s.Busy() {
		t.Fatal("expected session to be busy")
	}
	if _, err := s.AddItem("Eraser", "5", "1"); !errors.Is(err, ErrBusy) {
		t.Errorf("AddItem: expected ErrBusy, got %v", err)
	}
	if err := s.SetTax("18"); !errors.Is(err, ErrBusy) {
		t.Errorf("SetTax: expected ErrBusy, got %v", err)
	}
	if err := s.NewBill(true); !errors.Is(err, ErrBusy) {
		t.Errorf("NewBill: expected ErrBusy, got %v", err)
	}
	if _, err := s.ExportPDF(context.Background(), filepath.Join(t.TempDir(), "x")); !errors.Is(err, ErrBusy) {
		t.Errorf("ExportPDF: expected ErrBusy, got %v", err)
	}

	close(dev.release)
	if err := <-done; err != nil {
		t.Fatalf("print failed: %v", err)
	}

	if s.Busy() {
		t.Error("session still busy")
	}
	if _, err := s.AddItem("Eraser", "5", "1"); err != nil {
		t.Errorf("AddItem after print: %v", err)
	}
}

func TestSession_PrintCanceled(t *testing.T) {
	s := newSession(t, &blockingDevice{})
	addScenarioItems(t, s)

	res, err := s.Print(context.Background(), func([]printer.Device) (printer.Device, error) {
		return nil, printer.ErrCanceled
	})
	if err != nil || !res.Canceled {
		t.Errorf("expected canceled no-op, got %+v, %v", res, err)
	}
}

func TestSession_PrintNoDevice(t *testing.T) {
	s := newSession(t)
	addScenarioItems(t, s)

	_, err := s.Print(context.Background(), nil)
	var printErr *printer.PrintError
	if !errors.As(err, &printErr) || !errors.Is(err, printer.ErrNoDevice) {
		t.Errorf("expected PrintError wrapping ErrNoDevice, got %v", err)
	}
}

func TestSession_ApplyItems(t *testing.T) {
	s := newSession(t)

	err := s.Apply(Source{Items: []types.ItemInput{
		{Row: 2, Name: "Pen", Price: "10", Quantity: "3"},
		{Row: 3, Name: "Notebook", Price: "50.00", Quantity: "2"},
	}})
	if err != nil || len(s.Items()) != 2 {
		t.Fatalf("expected 2 items, got %d, %v", len(s.Items()), err)
	}
	if s.Totals().Subtotal.String() != "130" {
		t.Errorf("unexpected totals %v", s.Totals())
	}
}

func TestSession_ApplyItemsIsAtomic(t *testing.T) {
	s := newSession(t)

	err := s.Apply(Source{Items: []types.ItemInput{
		{Row: 2, Name: "Pen", Price: "10", Quantity: "3"},
		{Row: 3, Name: "Glue", Price: "0", Quantity: "1"},
	}})
	var importErr *ImportError
	if !errors.As(err, &importErr) || importErr.Row != 3 {
		t.Fatalf("expected ImportError at row 3, got %v", err)
	}
	if !errors.Is(err, &validation.ValidationError{Rule: validation.RuleNonPositive}) {
		t.Errorf("expected a must-be-positive violation, got %v", err)
	}
	if len(s.Items()) != 0 {
		t.Error("partial import left items behind")
	}
}

func TestAbout(t *testing.T) {
	if !strings.HasPrefix(newSession(t).About(), "SmartBill Pro v") {
		t.Errorf("unexpected about text %q", About())
	}
}
