package orders

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mshnjffr/e-commerce-store/internal/catalog"
)

// memStore is an in-memory Store and CatalogReader. InTx holds the mutex for
// the whole unit of work (serializable) and restores a snapshot when fn
// fails, matching the rollback contract of the postgres Repo.
type memStore struct {
	mu      sync.Mutex
	laptops map[int64]catalog.Laptop
	mice    map[int64]catalog.Mouse
	orders  map[int64]Order
	lines   map[int64][]Line

	nextOrderID int64
	nextLineID  int64
	clock       time.Time
}

func newMemStore() *memStore {
	return &memStore{
		laptops: map[int64]catalog.Laptop{},
		mice:    map[int64]catalog.Mouse{},
		orders:  map[int64]Order{},
		lines:   map[int64][]Line{},
		clock:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (s *memStore) addLaptop(id int64, price string, stock int) catalog.ProductRef {
	s.laptops[id] = catalog.Laptop{
		ID: id, Brand: "BrandCo", Model: "Model",
		Price: decimal.RequireFromString(price), StockQuantity: stock,
	}
	return catalog.ProductRef{Kind: catalog.KindLaptop, ID: id}
}

func (s *memStore) addMouse(id int64, price string, stock int) catalog.ProductRef {
	s.mice[id] = catalog.Mouse{
		ID: id, Brand: "BrandCo", Model: "Model",
		Price: decimal.RequireFromString(price), StockQuantity: stock,
	}
	return catalog.ProductRef{Kind: catalog.KindMouse, ID: id}
}

func (s *memStore) stock(ref catalog.ProductRef) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ref.Kind == catalog.KindLaptop {
		return s.laptops[ref.ID].StockQuantity
	}
	return s.mice[ref.ID].StockQuantity
}

func (s *memStore) setPrice(ref catalog.ProductRef, price string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ref.Kind == catalog.KindLaptop {
		l := s.laptops[ref.ID]
		l.Price = decimal.RequireFromString(price)
		s.laptops[ref.ID] = l
		return
	}
	m := s.mice[ref.ID]
	m.Price = decimal.RequireFromString(price)
	s.mice[ref.ID] = m
}

func (s *memStore) setStatus(orderID int64, status Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o := s.orders[orderID]
	o.Status = status
	s.orders[orderID] = o
}

func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *memStore) snapshot() (map[int64]catalog.Laptop, map[int64]catalog.Mouse, map[int64]Order, map[int64][]Line) {
	laptops := make(map[int64]catalog.Laptop, len(s.laptops))
	for k, v := range s.laptops {
		laptops[k] = v
	}
	mice := make(map[int64]catalog.Mouse, len(s.mice))
	for k, v := range s.mice {
		mice[k] = v
	}
	orders := make(map[int64]Order, len(s.orders))
	for k, v := range s.orders {
		orders[k] = v
	}
	lines := make(map[int64][]Line, len(s.lines))
	for k, v := range s.lines {
		lines[k] = append([]Line(nil), v...)
	}
	return laptops, mice, orders, lines
}

func (s *memStore) InTx(ctx context.Context, fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	laptops, mice, orders, lines := s.snapshot()
	if err := fn(&memTx{s: s}); err != nil {
		s.laptops, s.mice, s.orders, s.lines = laptops, mice, orders, lines
		return err
	}
	return nil
}

type memTx struct {
	s *memStore
}

func (t *memTx) ProductForUpdate(ctx context.Context, ref catalog.ProductRef) (ProductInfo, error) {
	switch ref.Kind {
	case catalog.KindLaptop:
		if l, ok := t.s.laptops[ref.ID]; ok {
			return ProductInfo{Price: l.Price, Stock: l.StockQuantity}, nil
		}
	case catalog.KindMouse:
		if m, ok := t.s.mice[ref.ID]; ok {
			return ProductInfo{Price: m.Price, Stock: m.StockQuantity}, nil
		}
	}
	return ProductInfo{}, &ProductNotFoundError{Ref: ref}
}

func (t *memTx) AdjustStock(ctx context.Context, ref catalog.ProductRef, delta int) error {
	switch ref.Kind {
	case catalog.KindLaptop:
		if l, ok := t.s.laptops[ref.ID]; ok {
			l.StockQuantity += delta
			t.s.laptops[ref.ID] = l
			return nil
		}
	case catalog.KindMouse:
		if m, ok := t.s.mice[ref.ID]; ok {
			m.StockQuantity += delta
			t.s.mice[ref.ID] = m
			return nil
		}
	}
	return &ProductNotFoundError{Ref: ref}
}

func (t *memTx) InsertOrder(ctx context.Context, userID int64, total decimal.Decimal) (Order, error) {
	t.s.nextOrderID++
	now := t.s.tick()
	o := Order{
		ID:          t.s.nextOrderID,
		UserID:      userID,
		TotalAmount: total,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	t.s.orders[o.ID] = o
	return o, nil
}

func (t *memTx) InsertLine(ctx context.Context, line Line) error {
	t.s.nextLineID++
	line.ID = t.s.nextLineID
	t.s.lines[line.OrderID] = append(t.s.lines[line.OrderID], line)
	return nil
}

func (t *memTx) OrderForUpdate(ctx context.Context, orderID, userID int64) (Order, error) {
	o, ok := t.s.orders[orderID]
	if !ok || o.UserID != userID {
		return Order{}, ErrOrderNotFound
	}
	return o, nil
}

func (t *memTx) Lines(ctx context.Context, orderID int64) ([]Line, error) {
	return append([]Line(nil), t.s.lines[orderID]...), nil
}

func (t *memTx) DeleteLines(ctx context.Context, orderID int64) error {
	delete(t.s.lines, orderID)
	return nil
}

func (t *memTx) SetOrderTotal(ctx context.Context, orderID int64, total decimal.Decimal) (time.Time, error) {
	o := t.s.orders[orderID]
	o.TotalAmount = total
	o.UpdatedAt = t.s.tick()
	t.s.orders[orderID] = o
	return o.UpdatedAt, nil
}

func (t *memTx) DeleteOrder(ctx context.Context, orderID int64) error {
	delete(t.s.orders, orderID)
	delete(t.s.lines, orderID)
	return nil
}

func (s *memStore) Order(ctx context.Context, orderID, userID int64) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok || o.UserID != userID {
		return Order{}, ErrOrderNotFound
	}
	return o, nil
}

func (s *memStore) OrdersByUser(ctx context.Context, userID int64) ([]Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Order
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *memStore) OrderLines(ctx context.Context, orderID int64) ([]Line, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Line(nil), s.lines[orderID]...), nil
}

func (s *memStore) Laptop(ctx context.Context, id int64) (catalog.Laptop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.laptops[id]
	if !ok {
		return catalog.Laptop{}, catalog.ErrNotFound
	}
	return l, nil
}

func (s *memStore) Mouse(ctx context.Context, id int64) (catalog.Mouse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.mice[id]
	if !ok {
		return catalog.Mouse{}, catalog.ErrNotFound
	}
	return m, nil
}
