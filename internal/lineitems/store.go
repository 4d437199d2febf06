// =============================================================================
// SmartBill - Line Item Store
// =============================================================================
//
// This module holds the ordered line items of the bill being built.
//
// OPERATIONS:
//   - Add appends a validated item
//   - RemoveLast removes items last-in first-out
//   - Clear empties the store
//
// The store is not safe for concurrent use; the session serialises access.
//
// =============================================================================

package lineitems

import (
	"errors"
	"strings"

	"github.com/ginjaninja78/smartbill/internal/types"
	"github.com/ginjaninja78/smartbill/internal/validation"
	"github.com/shopspring/decimal"
)

// ErrEmptyStore is matched by every *EmptyStoreError.
var ErrEmptyStore = errors.New("no items to remove")

// EmptyStoreError is returned by RemoveLast when the store has no items.
type EmptyStoreError struct{}

func (e *EmptyStoreError) Error() string { return "Table is already empty." }

func (e *EmptyStoreError) Is(target error) bool { return target == ErrEmptyStore }

// Store is an ordered sequence of line items.
type Store struct {
	items []types.LineItem
}

// New returns an empty store.
func New() *Store {
	return &Store{}
}

// Add validates and appends an item. The store is unchanged on error.
func (s *Store) Add(name string, price decimal.Decimal, qty int) (types.LineItem, error) {
	if err := validation.ValidateItem(name, price, qty); err != nil {
		return types.LineItem{}, err
	}
	item := types.LineItem{Name: strings.TrimSpace(name), UnitPrice: price, Quantity: qty}
	s.items = append(s.items, item)
	return item, nil
}

// AddInput parses raw form text and appends the resulting item.
func (s *Store) AddInput(name, priceText, qtyText string) (types.LineItem, error) {
	item, err := validation.ParseItem(name, priceText, qtyText)
	if err != nil {
		return types.LineItem{}, err
	}
	s.items = append(s.items, item)
	return item, nil
}

// RemoveLast removes and returns the most recently added item.
func (s *Store) RemoveLast() (types.LineItem, error) {
	if len(s.items) == 0 {
		return types.LineItem{}, &EmptyStoreError{}
	}
	last := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return last, nil
}

// Clear empties the store unconditionally.
func (s *Store) Clear() {
	s.items = nil
}

// Items returns a copy of the items in insertion order.
func (s *Store) Items() []types.LineItem {
	out := make([]types.LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of items.
func (s *Store) Len() int {
	return len(s.items)
}
