// =============================================================================
// SmartBill - Item Validation
// =============================================================================
//
// This module validates line-item input before it reaches the store.
// Item entry is STRICT: every failure blocks the add and is reported with a
// distinct rule so the caller can tell the cases apart:
//   - "empty name"        : the item name is blank after trimming
//   - "non-numeric input" : price or quantity does not parse
//   - "must be positive"  : price or quantity is zero or negative
//
// Rate fields are NOT validated here. They follow the lenient path in the
// billing package, where unparsable input silently becomes zero.
//
// =============================================================================

package validation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ginjaninja78/smartbill/internal/types"
	"github.com/shopspring/decimal"
)

// =============================================================================
// VALIDATION RULES
// =============================================================================

const (
	// RuleEmptyName is violated when the item name is blank.
	RuleEmptyName = "empty name"

	// RuleNonNumeric is violated when price or quantity cannot be parsed.
	RuleNonNumeric = "non-numeric input"

	// RuleNonPositive is violated when price or quantity is not > 0.
	RuleNonPositive = "must be positive"
)

// =============================================================================
// VALIDATION ERROR
// =============================================================================

// ValidationError describes a rejected line-item input.
type ValidationError struct {
	// Rule is one of the Rule* constants.
	Rule string

	// Field is the input field that failed ("name", "price", "quantity").
	Field string

	// Value is the raw input that failed validation.
	Value string

	// Message is a human-readable explanation suitable for a dialog.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Rule, e.Message)
}

// Is lets errors.Is match on the rule alone, e.g.
// errors.Is(err, &ValidationError{Rule: RuleEmptyName}).
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	if !ok {
		return false
	}
	return t.Rule == "" || t.Rule == e.Rule
}

// =============================================================================
// ITEM PARSING
// =============================================================================

// ParseItem converts raw form input into a LineItem.
//
// PARAMETERS:
//   - name: The item name; surrounding whitespace is removed.
//   - priceText: The unit price as typed (e.g. "10.50").
//   - qtyText: The quantity as typed; must be an integer literal.
//
// RETURNS:
//   - The validated LineItem.
//   - A *ValidationError if any field is rejected.
func ParseItem(name, priceText, qtyText string) (types.LineItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return types.LineItem{}, emptyName(name)
	}

	price, err := parseDecimal(priceText)
	if err != nil {
		return types.LineItem{}, nonNumeric("price", priceText)
	}

	qty, err := parseInteger(qtyText)
	if err != nil {
		return types.LineItem{}, nonNumeric("quantity", qtyText)
	}

	if err := ValidateItem(name, price, qty); err != nil {
		return types.LineItem{}, err
	}

	return types.LineItem{Name: name, UnitPrice: price, Quantity: qty}, nil
}

// ValidateItem checks already-typed item values.
func ValidateItem(name string, price decimal.Decimal, qty int) error {
	if strings.TrimSpace(name) == "" {
		return emptyName(name)
	}
	if !price.IsPositive() {
		return nonPositive("price", price.String())
	}
	if qty <= 0 {
		return nonPositive("quantity", strconv.Itoa(qty))
	}
	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// parseDecimal parses a plain decimal literal. Grouping separators and
// exponents are rejected so that "1,000" is reported as non-numeric.
func parseDecimal(value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero, fmt.Errorf("empty value")
	}
	if strings.ContainsAny(value, "eE,") {
		return decimal.Zero, fmt.Errorf("value %q is not a plain decimal", value)
	}
	return decimal.NewFromString(value)
}

// parseInteger parses an integer literal.
func parseInteger(value string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(value))
}

func emptyName(value string) *ValidationError {
	return &ValidationError{
		Rule:    RuleEmptyName,
		Field:   "name",
		Value:   value,
		Message: "Item name cannot be empty.",
	}
}

func nonNumeric(field, value string) *ValidationError {
	return &ValidationError{
		Rule:    RuleNonNumeric,
		Field:   field,
		Value:   value,
		Message: "Please enter valid numbers for Price and Quantity.",
	}
}

func nonPositive(field, value string) *ValidationError {
	return &ValidationError{
		Rule:    RuleNonPositive,
		Field:   field,
		Value:   value,
		Message: "Price and Quantity must be positive numbers.",
	}
}
