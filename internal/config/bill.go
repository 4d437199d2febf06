// =============================================================================
// SmartBill - Bill File
// =============================================================================
//
// This module reads YAML bill files: customer, rates and raw item rows.
//
// =============================================================================

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// BillFile is a bill described in YAML for batch rendering.
//
// Item fields are kept as text so they go through the same strict
// validation as interactive entry; rates stay text for the lenient path.
//
//	customer: Acme Stores
//	discount: "10"
//	tax: "5"
//	items:
//	  - name: Pen
//	    price: "10.00"
//	    qty: "3"
type BillFile struct {
	Customer string         `yaml:"customer"`
	Discount string         `yaml:"discount"`
	Tax      string         `yaml:"tax"`
	Items    []BillFileItem `yaml:"items"`
}

// BillFileItem is one raw line item of a BillFile.
type BillFileItem struct {
	Name  string `yaml:"name"`
	Price string `yaml:"price"`
	Qty   string `yaml:"qty"`
}

// LoadBill reads a YAML bill file.
func LoadBill(path string) (*BillFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bill file: %w", err)
	}

	var bill BillFile
	if err := yaml.Unmarshal(data, &bill); err != nil {
		return nil, fmt.Errorf("failed to parse bill file: %w", err)
	}

	return &bill, nil
}
