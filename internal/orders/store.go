package orders

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mshnjffr/e-commerce-store/internal/catalog"
)

// ProductInfo is the slice of a product the engine needs for reservation.
type ProductInfo struct {
	Price decimal.Decimal
	Stock int
}

// Tx is the unit-of-work surface the engine mutates through. Every method
// runs inside the transaction opened by Store.InTx; ProductForUpdate must
// hold a write lock on the product row until the transaction ends, so the
// stock check and the following AdjustStock are atomic with respect to
// concurrent reservations of the same product.
type Tx interface {
	ProductForUpdate(ctx context.Context, ref catalog.ProductRef) (ProductInfo, error)
	AdjustStock(ctx context.Context, ref catalog.ProductRef, delta int) error

	InsertOrder(ctx context.Context, userID int64, total decimal.Decimal) (Order, error)
	InsertLine(ctx context.Context, line Line) error

	OrderForUpdate(ctx context.Context, orderID, userID int64) (Order, error)
	Lines(ctx context.Context, orderID int64) ([]Line, error)
	DeleteLines(ctx context.Context, orderID int64) error
	SetOrderTotal(ctx context.Context, orderID int64, total decimal.Decimal) (time.Time, error)
	DeleteOrder(ctx context.Context, orderID int64) error
}

// Store persists orders. InTx runs fn atomically: an error return rolls back
// every write fn performed. Begin/commit failures surface as
// *TransactionError; errors from fn pass through unchanged.
type Store interface {
	InTx(ctx context.Context, fn func(tx Tx) error) error

	Order(ctx context.Context, orderID, userID int64) (Order, error)
	OrdersByUser(ctx context.Context, userID int64) ([]Order, error)
	OrderLines(ctx context.Context, orderID int64) ([]Line, error)
}

// CatalogReader resolves live product detail for read materialization.
type CatalogReader interface {
	Laptop(ctx context.Context, id int64) (catalog.Laptop, error)
	Mouse(ctx context.Context, id int64) (catalog.Mouse, error)
}
