// =============================================================================
// SmartBill - XML Writer Module
// =============================================================================
//
// This module generates a machine-readable XML invoice from a bill snapshot.
//
// XML STRUCTURE:
//
//   <invoice number="INV-..." date="2024-03-01T10:30:00Z" currency="₹">
//     <customer>Acme</customer>
//     <lineItems>
//       <lineItem n="1">
//         <name>Pen</name>
//         <unitPrice>10.00</unitPrice>
//         <quantity>3</quantity>
//         <lineTotal>30.00</lineTotal>
//       </lineItem>
//     </lineItems>
//     <summary>
//       <subtotal>130.00</subtotal>
//       <discountRate>10</discountRate>
//       <discountAmount>13.00</discountAmount>
//       <taxRate>5</taxRate>
//       <taxAmount>6.50</taxAmount>
//       <grandTotal>123.50</grandTotal>
//     </summary>
//   </invoice>
//
// Amounts are plain decimals without grouping. Unit prices keep their full
// precision; every other amount has two decimal places.
//
// =============================================================================

package xmlwriter

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ginjaninja78/smartbill/internal/billing"
	"github.com/ginjaninja78/smartbill/internal/types"
	"github.com/ginjaninja78/smartbill/pkg/utils"
	"github.com/shopspring/decimal"
)

// Extension is appended to export paths that lack it.
const Extension = ".xml"

// =============================================================================
// XML GENERATION OPTIONS
// =============================================================================

// GenerateOptions contains options for XML generation.
type GenerateOptions struct {
	// Indent is the string used for indentation.
	// Default: "  " (two spaces)
	Indent string

	// IncludeXMLDeclaration determines whether to include the XML declaration.
	// Default: true
	IncludeXMLDeclaration bool

	// CurrencySymbol is written as the currency attribute when set.
	CurrencySymbol string
}

// DefaultGenerateOptions returns the default generation options.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		Indent:                "  ",
		IncludeXMLDeclaration: true,
	}
}

// =============================================================================
// XML DOCUMENT
// =============================================================================

// Invoice is the root element.
type Invoice struct {
	XMLName   xml.Name       `xml:"invoice"`
	Number    string         `xml:"number,attr,omitempty"`
	Date      string         `xml:"date,attr"`
	Currency  string         `xml:"currency,attr,omitempty"`
	Customer  string         `xml:"customer"`
	LineItems []XMLLineItem  `xml:"lineItems>lineItem"`
	Summary   InvoiceSummary `xml:"summary"`
}

// XMLLineItem is one <lineItem> element.
type XMLLineItem struct {
	Index     int    `xml:"n,attr"`
	Name      string `xml:"name"`
	UnitPrice string `xml:"unitPrice"`
	Quantity  int    `xml:"quantity"`
	LineTotal string `xml:"lineTotal"`
}

// InvoiceSummary is the <summary> element.
type InvoiceSummary struct {
	Subtotal       string `xml:"subtotal"`
	DiscountRate   string `xml:"discountRate"`
	DiscountAmount string `xml:"discountAmount"`
	TaxRate        string `xml:"taxRate"`
	TaxAmount      string `xml:"taxAmount"`
	GrandTotal     string `xml:"grandTotal"`
}

// ExportError wraps a failure to generate or write an XML invoice.
type ExportError struct {
	Path string
	Op   string
	Err  error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("XML export failed (%s %s): %v", e.Op, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

// =============================================================================
// XML GENERATION FUNCTIONS
// =============================================================================

// Generate creates an XML invoice with the default options.
func Generate(bill types.Bill, totals types.Totals) ([]byte, error) {
	return GenerateWithOptions(bill, totals, DefaultGenerateOptions())
}

// GenerateWithOptions creates an XML invoice.
//
// PARAMETERS:
//   - bill: The bill snapshot.
//   - totals: The totals computed from the snapshot.
//   - options: The generation options.
//
// RETURNS:
//   - The XML document as a byte slice, ending in a newline.
//   - An error if marshalling fails.
func GenerateWithOptions(bill types.Bill, totals types.Totals, options GenerateOptions) ([]byte, error) {
	var buffer bytes.Buffer

	if options.IncludeXMLDeclaration {
		buffer.WriteString(xml.Header)
	}

	xmlBytes, err := xml.MarshalIndent(buildDocument(bill, totals, options), "", options.Indent)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal XML: %w", err)
	}

	buffer.Write(xmlBytes)
	buffer.WriteString("\n")

	return buffer.Bytes(), nil
}

// Export writes the XML invoice to path, appending ".xml" when the path lacks
// it. Returns the path written.
func Export(path string, bill types.Bill, totals types.Totals, options GenerateOptions) (string, error) {
	path = utils.EnsureExtension(path, Extension)

	if bill.IsEmpty() {
		return path, &ExportError{Path: path, Op: "validate", Err: fmt.Errorf("no items to export")}
	}

	data, err := GenerateWithOptions(bill, totals, options)
	if err != nil {
		return path, &ExportError{Path: path, Op: "generate", Err: err}
	}

	if err := utils.EnsureDirectory(filepath.Dir(path)); err != nil {
		return path, &ExportError{Path: path, Op: "write", Err: err}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return path, &ExportError{Path: path, Op: "write", Err: err}
	}

	return path, nil
}

// buildDocument constructs the XML document structure.
func buildDocument(bill types.Bill, totals types.Totals, options GenerateOptions) *Invoice {
	doc := &Invoice{
		Number:   bill.InvoiceNumber,
		Date:     bill.Timestamp.Format(time.RFC3339),
		Currency: options.CurrencySymbol,
		Customer: bill.CustomerName(),
	}

	for i, item := range bill.Items {
		doc.LineItems = append(doc.LineItems, XMLLineItem{
			Index:     i + 1,
			Name:      item.Name,
			UnitPrice: unitPrice(item),
			Quantity:  item.Quantity,
			LineTotal: amount(item.LineTotal()),
		})
	}

	doc.Summary = InvoiceSummary{
		Subtotal:       totals.Subtotal.StringFixed(billing.CurrencyPlaces),
		DiscountRate:   bill.DiscountRate.String(),
		DiscountAmount: totals.DiscountAmount.StringFixed(billing.CurrencyPlaces),
		TaxRate:        bill.TaxRate.String(),
		TaxAmount:      totals.TaxAmount.StringFixed(billing.CurrencyPlaces),
		GrandTotal:     totals.GrandTotal.StringFixed(billing.CurrencyPlaces),
	}

	return doc
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// unitPrice keeps extra precision but always shows at least two places.
func unitPrice(item types.LineItem) string {
	if item.UnitPrice.Exponent() < -billing.CurrencyPlaces {
		return item.UnitPrice.String()
	}
	return item.UnitPrice.StringFixed(billing.CurrencyPlaces)
}

func amount(d decimal.Decimal) string {
	return d.StringFixed(billing.CurrencyPlaces)
}

// =============================================================================
// XSD GENERATION
// =============================================================================

// GenerateXSD returns an XSD schema describing the invoice document.
func GenerateXSD() []byte {
	return []byte(`<?xml version="1.0" encoding="UTF-8"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
  <xs:element name="invoice">
    <xs:complexType>
      <xs:sequence>
        <xs:element name="customer" type="xs:string"/>
        <xs:element name="lineItems">
          <xs:complexType>
            <xs:sequence>
              <xs:element ref="lineItem" minOccurs="0" maxOccurs="unbounded"/>
            </xs:sequence>
          </xs:complexType>
        </xs:element>
        <xs:element name="summary">
          <xs:complexType>
            <xs:sequence>
              <xs:element name="subtotal" type="xs:decimal"/>
              <xs:element name="discountRate" type="xs:decimal"/>
              <xs:element name="discountAmount" type="xs:decimal"/>
              <xs:element name="taxRate" type="xs:decimal"/>
              <xs:element name="taxAmount" type="xs:decimal"/>
              <xs:element name="grandTotal" type="xs:decimal"/>
            </xs:sequence>
          </xs:complexType>
        </xs:element>
      </xs:sequence>
      <xs:attribute name="number" type="xs:string"/>
      <xs:attribute name="date" type="xs:dateTime" use="required"/>
      <xs:attribute name="currency" type="xs:string"/>
    </xs:complexType>
  </xs:element>

  <xs:element name="lineItem">
    <xs:complexType>
      <xs:sequence>
        <xs:element name="name" type="xs:string"/>
        <xs:element name="unitPrice" type="xs:decimal"/>
        <xs:element name="quantity" type="xs:positiveInteger"/>
        <xs:element name="lineTotal" type="xs:decimal"/>
      </xs:sequence>
      <xs:attribute name="n" type="xs:positiveInteger" use="required"/>
    </xs:complexType>
  </xs:element>
</xs:schema>
`)
}
