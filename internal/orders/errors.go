package orders

import (
	"errors"
	"fmt"

	"github.com/mshnjffr/e-commerce-store/internal/catalog"
)

var (
	// ErrOrderNotFound covers both a nonexistent order and an order owned
	// by another user; callers cannot tell the two apart.
	ErrOrderNotFound = errors.New("order not found")

	ErrOrderNotPending = errors.New("cannot modify order that is not pending")
)

// InvalidItemsError reports a malformed item list before any storage work.
type InvalidItemsError struct {
	Reason string
}

func (e *InvalidItemsError) Error() string { return "invalid order items: " + e.Reason }

// ProductNotFoundError reports a reference to a product that does not exist
// in its catalog.
type ProductNotFoundError struct {
	Ref catalog.ProductRef
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %d not found", e.Ref.Kind, e.Ref.ID)
}

// InsufficientStockError reports the first item whose requested quantity
// exceeds the product's current stock.
type InsufficientStockError struct {
	Ref       catalog.ProductRef
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s %d: requested %d, available %d",
		e.Ref.Kind, e.Ref.ID, e.Requested, e.Available)
}

// TransactionError wraps a storage begin/commit failure. The operation was
// fully rolled back; callers may retry.
type TransactionError struct {
	Err error
}

func (e *TransactionError) Error() string { return "transaction failed: " + e.Err.Error() }
func (e *TransactionError) Unwrap() error { return e.Err }
