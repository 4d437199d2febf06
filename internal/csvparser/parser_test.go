package csvparser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseReader_Simple(t *testing.T) {
	input := "Item,Price,Qty\nPen,10.00,3\nNotebook,50.00,2\n"

	items, err := ParseReader(strings.NewReader(input), Settings{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Name != "Pen" || items[0].Price != "10.00" || items[0].Quantity != "3" {
		t.Errorf("unexpected first item %+v", items[0])
	}
	if items[1].Row != 3 {
		t.Errorf("expected row 3, got %d", items[1].Row)
	}
}

func TestParseReader_MetadataAndSummaryRows(t *testing.T) {
	input := strings.Join([]string{
		"SMARTBILL PRO - INVOICE",
		"Customer,Acme",
		"",
		"Total,Quantity,Unit Price,Item Name",
		"30.00,3,10.00,Pen",
		"100.00,2,50.00,Notebook",
		",,,",
		"130.00,,,Subtotal",
	}, "\n")

	items, err := ParseReader(strings.NewReader(input), Settings{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d: %+v", len(items), items)
	}
	if items[1].Name != "Notebook" || items[1].Price != "50.00" || items[1].Quantity != "2" {
		t.Errorf("columns not mapped by header: %+v", items[1])
	}
}

func TestParseReader_SummaryWithoutBlankLine(t *testing.T) {
	input := "Item,Price,Qty,Total\nPen,10,3,30\nSubtotal,,,30\nBogus,1,1,1\n"

	items, err := ParseReader(strings.NewReader(input), Settings{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("expected table to stop at summary row, got %+v", items)
	}
}

func TestParseReader_Delimiters(t *testing.T) {
	tests := []struct {
		delimiter string
		input     string
	}{
		{";", "name;price;quantity\nPen;10;3\n"},
		{"tab", "Name\tPrice\tQty\nPen\t10\t3\n"},
		{"|", "ITEM|PRICE|QTY\nPen|10|3\n"},
	}

	for _, tt := range tests {
		items, err := ParseReader(strings.NewReader(tt.input), Settings{Delimiter: tt.delimiter})
		if err != nil {
			t.Errorf("delimiter %q: unexpected error: %v", tt.delimiter, err)
			continue
		}
		if len(items) != 1 || items[0].Name != "Pen" {
			t.Errorf("delimiter %q: unexpected items %+v", tt.delimiter, items)
		}
	}
}

func TestParseReader_NoHeader(t *testing.T) {
	if _, err := ParseReader(strings.NewReader("a,b,c\n1,2,3\n"), Settings{}); err == nil {
		t.Error("expected error for missing header")
	}
	if _, err := ParseReader(strings.NewReader(""), Settings{}); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestParse_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.csv")
	if err := os.WriteFile(path, []byte("Item,Price,Qty\nPen,10,3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	items, err := Parse(path, Settings{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("expected 1 item, got %d", len(items))
	}

	if _, err := Parse(filepath.Join(t.TempDir(), "missing.csv"), Settings{}); err == nil {
		t.Error("expected error for missing file")
	}
}
