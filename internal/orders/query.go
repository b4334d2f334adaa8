package orders

import (
	"context"

	"github.com/mshnjffr/e-commerce-store/internal/catalog"
)

// Query materializes orders for reads: header plus lines, each line enriched
// with the current catalog detail of its product. The frozen unit price on
// the line and the live price on the embedded product are both returned.
type Query struct {
	store   Store
	catalog CatalogReader
}

func NewQuery(store Store, cat CatalogReader) *Query {
	return &Query{store: store, catalog: cat}
}

// Get returns the order only when it belongs to userID; an order owned by
// someone else is indistinguishable from a missing one.
func (q *Query) Get(ctx context.Context, orderID, userID int64) (Order, error) {
	order, err := q.store.Order(ctx, orderID, userID)
	if err != nil {
		return Order{}, err
	}
	lines, err := q.store.OrderLines(ctx, orderID)
	if err != nil {
		return Order{}, err
	}
	for i := range lines {
		q.enrich(ctx, &lines[i])
	}
	order.Lines = lines
	return order, nil
}

// List returns the user's orders newest first, each materialized like Get.
func (q *Query) List(ctx context.Context, userID int64) ([]Order, error) {
	headers, err := q.store.OrdersByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]Order, 0, len(headers))
	for _, h := range headers {
		lines, err := q.store.OrderLines(ctx, h.ID)
		if err != nil {
			return nil, err
		}
		for i := range lines {
			q.enrich(ctx, &lines[i])
		}
		h.Lines = lines
		out = append(out, h)
	}
	return out, nil
}

// enrich attaches the live product. A product that has vanished from the
// catalog leaves the embed nil rather than failing the read.
func (q *Query) enrich(ctx context.Context, l *Line) {
	switch l.Ref.Kind {
	case catalog.KindLaptop:
		if lp, err := q.catalog.Laptop(ctx, l.Ref.ID); err == nil {
			l.Laptop = &lp
		}
	case catalog.KindMouse:
		if m, err := q.catalog.Mouse(ctx, l.Ref.ID); err == nil {
			l.Mouse = &m
		}
	}
}
