package xlsxparser

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, sheet string, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			t.Fatal(err)
		}
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}

	path := filepath.Join(t.TempDir(), "items.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParse_ItemSheet(t *testing.T) {
	path := writeWorkbook(t, "Items", [][]interface{}{
		{"Stock list"},
		{},
		{"Name", "Unit Price", "Quantity"},
		{"Pen", 10.5, 3},
		{"Stapler", "120", "1"},
	})

	items, err := Parse(path, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d: %+v", len(items), items)
	}
	if items[0].Name != "Pen" || items[0].Price != "10.5" || items[0].Quantity != "3" {
		t.Errorf("unexpected first item %+v", items[0])
	}
	if items[1].Row != 5 {
		t.Errorf("expected sheet row 5, got %d", items[1].Row)
	}
}

func TestParse_NamedSheet(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]interface{}{
		{"Item", "Price", "Qty"},
		{"Pen", 1, 1},
	})

	_, err := Parse(path, Options{Sheet: "Missing"})
	if err == nil || !strings.Contains(err.Error(), `"Missing" not found (sheets: Sheet1)`) {
		t.Errorf("expected unknown sheet error listing the sheets, got %v", err)
	}

	items, err := Parse(path, Options{Sheet: "Sheet1"})
	if err != nil || len(items) != 1 {
		t.Errorf("named sheet not read: %v, %v", items, err)
	}
}

func TestParse_NoHeader(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]interface{}{
		{"a", "b"},
		{1, 2},
	})

	if _, err := Parse(path, Options{}); err == nil {
		t.Error("expected error for missing header row")
	}
}

func TestParse_MissingFile(t *testing.T) {
	if _, err := Parse(filepath.Join(t.TempDir(), "nope.xlsx"), Options{}); err == nil {
		t.Error("expected error for missing file")
	}
}
