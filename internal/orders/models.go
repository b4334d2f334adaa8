package orders

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mshnjffr/e-commerce-store/internal/catalog"
)

type Status string

const (
	// StatusPending is the only status under which an order may be
	// updated or deleted. The remaining states are set by downstream
	// processes and freeze the order here.
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

type Order struct {
	ID          int64
	UserID      int64
	TotalAmount decimal.Decimal
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Lines       []Line
}

// Line is one product reference plus quantity within an order. UnitPrice is
// the product's price at order time and is never recomputed; Laptop/Mouse
// carry the current catalog detail and are filled by the query service only.
type Line struct {
	ID        int64
	OrderID   int64
	Ref       catalog.ProductRef
	Quantity  int
	UnitPrice decimal.Decimal

	Laptop *catalog.Laptop
	Mouse  *catalog.Mouse
}

// ItemInput is one requested (product, quantity) pair. The wire layer builds
// the Ref via catalog.NewRef so the laptop/mouse exclusivity is settled
// before the engine runs.
type ItemInput struct {
	Ref      catalog.ProductRef
	Quantity int
}
