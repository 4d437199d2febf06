package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.ShopName != "SMARTBILL PRO" || cfg.CurrencySymbol != "₹" || cfg.FileNameFormat != "Invoice_{millis}" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.Print.PageHeight != 648 || cfg.Print.TopOffset != 50 || cfg.Print.LinePitch != 15 {
		t.Errorf("unexpected print defaults %+v", cfg.Print)
	}
	if cfg.Print.Device != DeviceSpooler || cfg.Print.SpoolCommand != "lp" {
		t.Errorf("unexpected device defaults %+v", cfg.Print)
	}
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "smartbill.yaml")
	content := `shop_name: CORNER STORE
currency_symbol: "$"
output_dir: out
print:
  device: pdf
  device_path: receipts/last.pdf
  line_pitch: 12
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ShopName != "CORNER STORE" || cfg.CurrencySymbol != "$" || cfg.OutputDir != "out" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Print.Device != DevicePDF || cfg.Print.LinePitch != 12 || cfg.Print.PageHeight != 648 {
		t.Errorf("unexpected print config %+v", cfg.Print)
	}
	if cfg.Footer != "Thank you for your business!" {
		t.Errorf("default footer not applied: %q", cfg.Footer)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := map[string]string{
		"log level":    "log_level: loud\n",
		"pitch":        "print:\n  line_pitch: -1\n",
		"device":       "print:\n  device: fax\n",
		"missing path": "print:\n  device: device-file\n",
		"yaml":         "shop_name: [unclosed\n",
	}
	for name, data := range tests {
		if _, err := Parse([]byte(data)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestLoadBill(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bill.yaml")
	content := `customer: Acme Stores
discount: "10"
items:
  - name: Pen
    price: "10.00"
    qty: "3"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	bill, err := LoadBill(path)
	if err != nil {
		t.Fatal(err)
	}
	if bill.Customer != "Acme Stores" || bill.Discount != "10" || bill.Tax != "" {
		t.Errorf("unexpected bill %+v", bill)
	}
	if len(bill.Items) != 1 || bill.Items[0].Qty != "3" {
		t.Errorf("unexpected items %+v", bill.Items)
	}

	if _, err := LoadBill(filepath.Join(t.TempDir(), "none.yaml")); err == nil || !strings.Contains(err.Error(), "bill file") {
		t.Errorf("expected wrapped read error, got %v", err)
	}
}
