package orders

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mshnjffr/e-commerce-store/internal/catalog"
)

func newTestEngine(st *memStore) *Engine {
	return NewEngine(st, zap.NewNop(), 100)
}

func item(ref catalog.ProductRef, qty int) ItemInput {
	return ItemInput{Ref: ref, Quantity: qty}
}

func TestCreateOrder(t *testing.T) {
	st := newMemStore()
	l1 := st.addLaptop(1, "100.00", 10)
	e := newTestEngine(st)
	ctx := context.Background()

	order, err := e.Create(ctx, 1, []ItemInput{item(l1, 3)})
	require.NoError(t, err)

	assert.Equal(t, StatusPending, order.Status)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("300.00")),
		"total = %s", order.TotalAmount)
	assert.Equal(t, 7, st.stock(l1))
	require.Len(t, order.Lines, 1)
	assert.Equal(t, l1, order.Lines[0].Ref)
	assert.Equal(t, 3, order.Lines[0].Quantity)
	assert.True(t, order.Lines[0].UnitPrice.Equal(decimal.RequireFromString("100.00")))
}

func TestCreateOrder_MixedCatalogs(t *testing.T) {
	st := newMemStore()
	l1 := st.addLaptop(1, "1299.00", 5)
	m1 := st.addMouse(1, "79.99", 20)
	e := newTestEngine(st)

	order, err := e.Create(context.Background(), 1, []ItemInput{item(l1, 1), item(m1, 2)})
	require.NoError(t, err)

	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("1458.98")),
		"total = %s", order.TotalAmount)
	assert.Equal(t, 4, st.stock(l1))
	assert.Equal(t, 18, st.stock(m1))
}

func TestCreateOrder_InsufficientStock(t *testing.T) {
	st := newMemStore()
	l1 := st.addLaptop(1, "100.00", 7)
	e := newTestEngine(st)

	_, err := e.Create(context.Background(), 1, []ItemInput{item(l1, 20)})

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, l1, stockErr.Ref)
	assert.Equal(t, 20, stockErr.Requested)
	assert.Equal(t, 7, stockErr.Available)

	assert.Equal(t, 7, st.stock(l1), "stock must not change on failure")
	got, err := st.OrdersByUser(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, got, "no order may persist on failure")
}

func TestCreateOrder_ProductNotFound(t *testing.T) {
	st := newMemStore()
	e := newTestEngine(st)

	missing := catalog.ProductRef{Kind: catalog.KindLaptop, ID: 42}
	_, err := e.Create(context.Background(), 1, []ItemInput{item(missing, 1)})

	var nfErr *ProductNotFoundError
	require.ErrorAs(t, err, &nfErr)
	assert.Equal(t, missing, nfErr.Ref)
}

func TestCreateOrder_AtomicAcrossItems(t *testing.T) {
	st := newMemStore()
	l1 := st.addLaptop(1, "100.00", 10)
	e := newTestEngine(st)

	// first item is fine, second references a missing mouse
	missing := catalog.ProductRef{Kind: catalog.KindMouse, ID: 99}
	_, err := e.Create(context.Background(), 1, []ItemInput{item(l1, 3), item(missing, 1)})

	var nfErr *ProductNotFoundError
	require.ErrorAs(t, err, &nfErr)
	assert.Equal(t, 10, st.stock(l1), "decrement of earlier items must roll back")
	got, _ := st.OrdersByUser(context.Background(), 1)
	assert.Empty(t, got)
}

func TestCreateOrder_RejectsBadItems(t *testing.T) {
	st := newMemStore()
	l1 := st.addLaptop(1, "100.00", 10)
	e := newTestEngine(st)
	ctx := context.Background()

	cases := []struct {
		name  string
		items []ItemInput
	}{
		{"empty", nil},
		{"zero quantity", []ItemInput{item(l1, 0)}},
		{"negative quantity", []ItemInput{item(l1, -2)}},
		{"over cap", []ItemInput{item(l1, 101)}},
		{"no reference", []ItemInput{{Quantity: 1}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.Create(ctx, 1, tc.items)
			var invErr *InvalidItemsError
			require.ErrorAs(t, err, &invErr)
			assert.Equal(t, 10, st.stock(l1))
		})
	}
}

func TestUpdateOrder_SameProductRevalidatedAgainstRestoredStock(t *testing.T) {
	st := newMemStore()
	l1 := st.addLaptop(1, "100.00", 10)
	e := newTestEngine(st)
	ctx := context.Background()

	order, err := e.Create(ctx, 1, []ItemInput{item(l1, 3)})
	require.NoError(t, err)
	require.Equal(t, 7, st.stock(l1))

	// raising to 5 only works because the order's own 3 are restored first
	updated, err := e.Update(ctx, order.ID, 1, []ItemInput{item(l1, 5)})
	require.NoError(t, err)

	assert.Equal(t, 5, st.stock(l1))
	assert.True(t, updated.TotalAmount.Equal(decimal.RequireFromString("500.00")))
	require.Len(t, updated.Lines, 1)
	assert.Equal(t, 5, updated.Lines[0].Quantity)
	assert.Equal(t, order.ID, updated.ID)
	assert.Equal(t, order.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(order.UpdatedAt),
		"returned order must carry the refreshed update time")
}

func TestUpdateOrder_RestoresMouseStock(t *testing.T) {
	st := newMemStore()
	l1 := st.addLaptop(1, "100.00", 10)
	m1 := st.addMouse(1, "50.00", 8)
	e := newTestEngine(st)
	ctx := context.Background()

	order, err := e.Create(ctx, 1, []ItemInput{item(m1, 4)})
	require.NoError(t, err)
	require.Equal(t, 4, st.stock(m1))

	// replacing the mouse line with a laptop line must give the mice back
	_, err = e.Update(ctx, order.ID, 1, []ItemInput{item(l1, 2)})
	require.NoError(t, err)

	assert.Equal(t, 8, st.stock(m1))
	assert.Equal(t, 8, st.stock(l1))
}

func TestUpdateOrder_FailureLeavesOrderUntouched(t *testing.T) {
	st := newMemStore()
	l1 := st.addLaptop(1, "100.00", 10)
	e := newTestEngine(st)
	ctx := context.Background()

	order, err := e.Create(ctx, 1, []ItemInput{item(l1, 3)})
	require.NoError(t, err)

	missing := catalog.ProductRef{Kind: catalog.KindLaptop, ID: 77}
	_, err = e.Update(ctx, order.ID, 1, []ItemInput{item(missing, 1)})
	var nfErr *ProductNotFoundError
	require.ErrorAs(t, err, &nfErr)

	// the mid-flight stock restoration must have rolled back too
	assert.Equal(t, 7, st.stock(l1))
	lines, err := st.OrderLines(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)

	header, err := st.Order(ctx, order.ID, 1)
	require.NoError(t, err)
	assert.True(t, header.TotalAmount.Equal(order.TotalAmount))
}

func TestUpdateOrder_NotFoundAndOwnership(t *testing.T) {
	st := newMemStore()
	l1 := st.addLaptop(1, "100.00", 10)
	e := newTestEngine(st)
	ctx := context.Background()

	order, err := e.Create(ctx, 1, []ItemInput{item(l1, 1)})
	require.NoError(t, err)

	_, err = e.Update(ctx, 999, 1, []ItemInput{item(l1, 1)})
	assert.ErrorIs(t, err, ErrOrderNotFound)

	// another user's order looks nonexistent, not forbidden
	_, err = e.Update(ctx, order.ID, 2, []ItemInput{item(l1, 1)})
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestUpdateOrder_NonPending(t *testing.T) {
	st := newMemStore()
	l1 := st.addLaptop(1, "100.00", 10)
	e := newTestEngine(st)
	ctx := context.Background()

	order, err := e.Create(ctx, 1, []ItemInput{item(l1, 2)})
	require.NoError(t, err)
	st.setStatus(order.ID, StatusConfirmed)

	_, err = e.Update(ctx, order.ID, 1, []ItemInput{item(l1, 1)})
	assert.ErrorIs(t, err, ErrOrderNotPending)
	assert.Equal(t, 8, st.stock(l1), "no stock movement on rejected update")
}

func TestDeleteOrder(t *testing.T) {
	st := newMemStore()
	l1 := st.addLaptop(1, "100.00", 10)
	m1 := st.addMouse(1, "50.00", 6)
	e := newTestEngine(st)
	ctx := context.Background()

	order, err := e.Create(ctx, 1, []ItemInput{item(l1, 3), item(m1, 2)})
	require.NoError(t, err)

	deleted, err := e.Delete(ctx, order.ID, 1)
	require.NoError(t, err)
	assert.Len(t, deleted.Lines, 2)

	assert.Equal(t, 10, st.stock(l1))
	assert.Equal(t, 6, st.stock(m1))

	_, err = st.Order(ctx, order.ID, 1)
	assert.ErrorIs(t, err, ErrOrderNotFound)
	lines, _ := st.OrderLines(ctx, order.ID)
	assert.Empty(t, lines, "lines cascade with the order")
}

func TestDeleteOrder_NonPending(t *testing.T) {
	st := newMemStore()
	l1 := st.addLaptop(1, "100.00", 10)
	e := newTestEngine(st)
	ctx := context.Background()

	order, err := e.Create(ctx, 1, []ItemInput{item(l1, 2)})
	require.NoError(t, err)
	st.setStatus(order.ID, StatusShipped)

	_, err = e.Delete(ctx, order.ID, 1)
	assert.ErrorIs(t, err, ErrOrderNotPending)
	assert.Equal(t, 8, st.stock(l1))
}

func TestDeleteOrder_Ownership(t *testing.T) {
	st := newMemStore()
	l1 := st.addLaptop(1, "100.00", 10)
	e := newTestEngine(st)
	ctx := context.Background()

	order, err := e.Create(ctx, 1, []ItemInput{item(l1, 2)})
	require.NoError(t, err)

	_, err = e.Delete(ctx, order.ID, 2)
	assert.ErrorIs(t, err, ErrOrderNotFound)
	assert.Equal(t, 8, st.stock(l1))
}

// Full lifecycle of one order against a single product: create, a rejected
// oversized update, a successful shrink, then delete, checking stock and
// total after every step.
func TestOrderLifecycle(t *testing.T) {
	st := newMemStore()
	l1 := st.addLaptop(1, "100.00", 10)
	e := newTestEngine(st)
	q := NewQuery(st, st)
	ctx := context.Background()

	order, err := e.Create(ctx, 1, []ItemInput{item(l1, 3)})
	require.NoError(t, err)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("300.00")))
	assert.Equal(t, 7, st.stock(l1))

	_, err = e.Update(ctx, order.ID, 1, []ItemInput{item(l1, 20)})
	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 7, st.stock(l1), "failed update must not move stock")

	updated, err := e.Update(ctx, order.ID, 1, []ItemInput{item(l1, 5)})
	require.NoError(t, err)
	assert.True(t, updated.TotalAmount.Equal(decimal.RequireFromString("500.00")))
	assert.Equal(t, 5, st.stock(l1))

	_, err = e.Delete(ctx, order.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 10, st.stock(l1))

	_, err = q.Get(ctx, order.ID, 1)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

// stock + sum of pending line quantities referencing the product must equal
// the initial stock after any successful sequence of operations.
func TestStockConservation(t *testing.T) {
	st := newMemStore()
	l1 := st.addLaptop(1, "100.00", 20)
	m1 := st.addMouse(1, "10.00", 30)
	e := newTestEngine(st)
	ctx := context.Background()

	check := func() {
		t.Helper()
		held := map[catalog.ProductRef]int{}
		st.mu.Lock()
		for _, ls := range st.lines {
			for _, l := range ls {
				held[l.Ref] += l.Quantity
			}
		}
		st.mu.Unlock()
		assert.Equal(t, 20, st.stock(l1)+held[l1])
		assert.Equal(t, 30, st.stock(m1)+held[m1])
	}

	o1, err := e.Create(ctx, 1, []ItemInput{item(l1, 5), item(m1, 10)})
	require.NoError(t, err)
	check()

	o2, err := e.Create(ctx, 2, []ItemInput{item(l1, 7)})
	require.NoError(t, err)
	check()

	_, err = e.Update(ctx, o1.ID, 1, []ItemInput{item(m1, 25)})
	require.NoError(t, err)
	check()

	_, err = e.Delete(ctx, o2.ID, 2)
	require.NoError(t, err)
	check()

	// failed operations must not disturb the invariant either
	_, err = e.Create(ctx, 1, []ItemInput{item(l1, 1000)})
	require.Error(t, err)
	check()
}

func TestPriceFreeze(t *testing.T) {
	st := newMemStore()
	l1 := st.addLaptop(1, "100.00", 10)
	e := newTestEngine(st)
	ctx := context.Background()

	order, err := e.Create(ctx, 1, []ItemInput{item(l1, 2)})
	require.NoError(t, err)

	st.setPrice(l1, "250.00")

	lines, err := st.OrderLines(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.True(t, lines[0].UnitPrice.Equal(decimal.RequireFromString("100.00")),
		"unit price is a snapshot, catalog changes must not reprice existing lines")
}

func TestConcurrentCreate_NoOversell(t *testing.T) {
	st := newMemStore()
	l1 := st.addLaptop(1, "100.00", 1)
	e := newTestEngine(st)
	ctx := context.Background()

	const attempts = 8
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(uid int64) {
			defer wg.Done()
			_, err := e.Create(ctx, uid, []ItemInput{item(l1, 1)})
			results <- err
		}(int64(i + 1))
	}
	wg.Wait()
	close(results)

	var successes, rejected int
	for err := range results {
		switch {
		case err == nil:
			successes++
		default:
			var stockErr *InsufficientStockError
			require.True(t, errors.As(err, &stockErr), "unexpected error: %v", err)
			rejected++
		}
	}
	assert.Equal(t, 1, successes, "exactly one order may win the last unit")
	assert.Equal(t, attempts-1, rejected)
	assert.Equal(t, 0, st.stock(l1))
}
