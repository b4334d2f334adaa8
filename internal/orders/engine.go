package orders

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Engine executes order mutations. Each public method is one atomic unit of
// work: validation, stock movement and row writes either all commit or all
// roll back. Items are processed in caller order and the first failure
// aborts the whole call.
type Engine struct {
	store      Store
	log        *zap.Logger
	maxLineQty int
}

func NewEngine(store Store, log *zap.Logger, maxLineQty int) *Engine {
	if maxLineQty <= 0 {
		maxLineQty = 100
	}
	return &Engine{store: store, log: log, maxLineQty: maxLineQty}
}

// Create validates and persists a new pending order, decrementing stock for
// every line. It returns the stored order with its lines (no catalog
// enrichment; see Query for the materialized view).
func (e *Engine) Create(ctx context.Context, userID int64, items []ItemInput) (Order, error) {
	if err := e.validateItems(items); err != nil {
		return Order{}, err
	}

	var out Order
	err := e.store.InTx(ctx, func(tx Tx) error {
		total, priced, err := e.reserve(ctx, tx, items)
		if err != nil {
			return err
		}

		order, err := tx.InsertOrder(ctx, userID, total)
		if err != nil {
			return err
		}
		for i := range priced {
			priced[i].OrderID = order.ID
			if err := tx.InsertLine(ctx, priced[i]); err != nil {
				return err
			}
		}
		order.Lines = priced
		out = order
		return nil
	})
	if err != nil {
		return Order{}, err
	}

	e.log.Info("order created",
		zap.Int64("order_id", out.ID),
		zap.Int64("user_id", userID),
		zap.String("total", out.TotalAmount.String()),
		zap.Int("lines", len(out.Lines)))
	return out, nil
}

// Update replaces the entire line set of a pending order. Stock held by the
// existing lines is restored first, then the new items are validated and
// reserved against the restored levels, so shrinking a quantity on the same
// product never fails the stock check against its own reservation.
func (e *Engine) Update(ctx context.Context, orderID, userID int64, items []ItemInput) (Order, error) {
	if err := e.validateItems(items); err != nil {
		return Order{}, err
	}

	var out Order
	err := e.store.InTx(ctx, func(tx Tx) error {
		order, err := tx.OrderForUpdate(ctx, orderID, userID)
		if err != nil {
			return err
		}
		if order.Status != StatusPending {
			return ErrOrderNotPending
		}

		if err := e.restoreLines(ctx, tx, orderID); err != nil {
			return err
		}
		if err := tx.DeleteLines(ctx, orderID); err != nil {
			return err
		}

		total, priced, err := e.reserve(ctx, tx, items)
		if err != nil {
			return err
		}
		for i := range priced {
			priced[i].OrderID = orderID
			if err := tx.InsertLine(ctx, priced[i]); err != nil {
				return err
			}
		}
		updatedAt, err := tx.SetOrderTotal(ctx, orderID, total)
		if err != nil {
			return err
		}

		order.TotalAmount = total
		order.UpdatedAt = updatedAt
		order.Lines = priced
		out = order
		return nil
	})
	if err != nil {
		return Order{}, err
	}

	e.log.Info("order updated",
		zap.Int64("order_id", orderID),
		zap.Int64("user_id", userID),
		zap.String("total", out.TotalAmount.String()),
		zap.Int("lines", len(out.Lines)))
	return out, nil
}

// Delete removes a pending order, restoring stock for every line. The
// returned order carries the lines that were released.
func (e *Engine) Delete(ctx context.Context, orderID, userID int64) (Order, error) {
	var out Order
	err := e.store.InTx(ctx, func(tx Tx) error {
		order, err := tx.OrderForUpdate(ctx, orderID, userID)
		if err != nil {
			return err
		}
		if order.Status != StatusPending {
			return ErrOrderNotPending
		}

		lines, err := tx.Lines(ctx, orderID)
		if err != nil {
			return err
		}
		for _, l := range lines {
			if err := tx.AdjustStock(ctx, l.Ref, l.Quantity); err != nil {
				return err
			}
		}
		if err := tx.DeleteOrder(ctx, orderID); err != nil {
			return err
		}

		order.Lines = lines
		out = order
		return nil
	})
	if err != nil {
		return Order{}, err
	}

	e.log.Info("order deleted",
		zap.Int64("order_id", orderID),
		zap.Int64("user_id", userID),
		zap.Int("lines_released", len(out.Lines)))
	return out, nil
}

// reserve runs the per-item check-and-decrement loop: lock the product row,
// verify stock, decrement, snapshot the price. Returns the order total and
// the lines to insert. Fail-fast: the first bad item aborts.
func (e *Engine) reserve(ctx context.Context, tx Tx, items []ItemInput) (decimal.Decimal, []Line, error) {
	total := decimal.Zero
	lines := make([]Line, 0, len(items))

	for _, it := range items {
		p, err := tx.ProductForUpdate(ctx, it.Ref)
		if err != nil {
			return decimal.Zero, nil, err
		}
		if p.Stock < it.Quantity {
			return decimal.Zero, nil, &InsufficientStockError{
				Ref:       it.Ref,
				Requested: it.Quantity,
				Available: p.Stock,
			}
		}
		if err := tx.AdjustStock(ctx, it.Ref, -it.Quantity); err != nil {
			return decimal.Zero, nil, err
		}

		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
		lines = append(lines, Line{
			Ref:       it.Ref,
			Quantity:  it.Quantity,
			UnitPrice: p.Price,
		})
	}
	return total, lines, nil
}

// restoreLines gives back the stock held by every existing line of an order,
// dispatching on whichever catalog the line references.
func (e *Engine) restoreLines(ctx context.Context, tx Tx, orderID int64) error {
	lines, err := tx.Lines(ctx, orderID)
	if err != nil {
		return err
	}
	for _, l := range lines {
		if err := tx.AdjustStock(ctx, l.Ref, l.Quantity); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) validateItems(items []ItemInput) error {
	if len(items) == 0 {
		return &InvalidItemsError{Reason: "order must contain at least one item"}
	}
	for i, it := range items {
		if !it.Ref.Valid() {
			return &InvalidItemsError{Reason: fmt.Sprintf("item %d: missing product reference", i)}
		}
		if it.Quantity < 1 || it.Quantity > e.maxLineQty {
			return &InvalidItemsError{
				Reason: fmt.Sprintf("item %d: quantity must be between 1 and %d", i, e.maxLineQty),
			}
		}
	}
	return nil
}
