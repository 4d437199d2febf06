package xmlwriter

import (
	"encoding/xml"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ginjaninja78/smartbill/internal/billing"
	"github.com/ginjaninja78/smartbill/internal/types"
	"github.com/shopspring/decimal"
)

func sampleBill() types.Bill {
	return types.Bill{
		InvoiceNumber: "INV-42",
		Customer:      "Acme & Sons",
		Items: []types.LineItem{
			{Name: "Pen", UnitPrice: decimal.RequireFromString("10"), Quantity: 3},
			{Name: "Notebook", UnitPrice: decimal.RequireFromString("50.00"), Quantity: 2},
		},
		DiscountRate: decimal.NewFromInt(10),
		TaxRate:      decimal.NewFromInt(5),
		Timestamp:    time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC),
	}
}

func TestGenerate_Structure(t *testing.T) {
	bill := sampleBill()
	data, err := Generate(bill, billing.ComputeBill(bill))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text := string(data)
	if !strings.HasPrefix(text, "<?xml") {
		t.Error("expected XML declaration")
	}

	for _, want := range []string{
		`<invoice number="INV-42" date="2024-03-01T10:30:00Z">`,
		`  <customer>Acme &amp; Sons</customer>`,
		`    <lineItem n="2">`,
		`      <unitPrice>10.00</unitPrice>`,
		`      <lineTotal>100.00</lineTotal>`,
		`    <discountAmount>13.00</discountAmount>`,
		`    <taxAmount>6.50</taxAmount>`,
		`    <grandTotal>123.50</grandTotal>`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q in:\n%s", want, text)
		}
	}
}

func TestGenerate_Unmarshal(t *testing.T) {
	bill := sampleBill()
	data, err := GenerateWithOptions(bill, billing.ComputeBill(bill), GenerateOptions{Indent: "\t", CurrencySymbol: "₹"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var doc Invoice
	if err := xml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc.Currency != "₹" {
		t.Errorf("expected currency attribute, got %q", doc.Currency)
	}
	if len(doc.LineItems) != 2 || doc.LineItems[0].Name != "Pen" || doc.LineItems[0].Quantity != 3 {
		t.Errorf("unexpected line items %+v", doc.LineItems)
	}

	var items []types.LineItem
	for _, li := range doc.LineItems {
		items = append(items, types.LineItem{
			Name:      li.Name,
			UnitPrice: decimal.RequireFromString(li.UnitPrice),
			Quantity:  li.Quantity,
		})
	}
	recomputed := billing.Compute(items, decimal.RequireFromString(doc.Summary.DiscountRate), decimal.RequireFromString(doc.Summary.TaxRate))
	if recomputed.GrandTotal.StringFixed(2) != doc.Summary.GrandTotal {
		t.Errorf("grand total %s does not match recomputed %s", doc.Summary.GrandTotal, recomputed.GrandTotal)
	}
}

func TestExport(t *testing.T) {
	bill := sampleBill()
	target := filepath.Join(t.TempDir(), "invoice")

	path, err := Export(target, bill, billing.ComputeBill(bill), DefaultGenerateOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != target+".xml" {
		t.Errorf("unexpected path %s", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("file not written: %v", err)
	}

	bill.Items = nil
	_, err = Export(filepath.Join(t.TempDir(), "empty.xml"), bill, types.Totals{}, DefaultGenerateOptions())
	var exportErr *ExportError
	if !errors.As(err, &exportErr) {
		t.Errorf("expected ExportError, got %v", err)
	}
}

func TestGenerateXSD(t *testing.T) {
	xsd := string(GenerateXSD())
	if !strings.Contains(xsd, `<xs:element name="invoice">`) || !strings.Contains(xsd, `<xs:element name="lineItem">`) {
		t.Error("XSD is missing element definitions")
	}
}
