package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/mshnjffr/e-commerce-store/internal/catalog"
)

// Repo implements Store on postgres. Product rows are locked with
// SELECT ... FOR UPDATE so the check-then-decrement sequence cannot race a
// concurrent reservation of the same product.
type Repo struct {
	DB *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo { return &Repo{DB: db} }

func (r *Repo) InTx(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return &TransactionError{Err: err}
	}
	defer tx.Rollback(ctx)

	if err := fn(&pgTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return &TransactionError{Err: err}
	}
	return nil
}

type pgTx struct {
	tx pgx.Tx
}

func tableFor(ref catalog.ProductRef) (string, error) {
	switch ref.Kind {
	case catalog.KindLaptop:
		return "laptops", nil
	case catalog.KindMouse:
		return "mice", nil
	default:
		return "", fmt.Errorf("unknown product kind %q", ref.Kind)
	}
}

func (t *pgTx) ProductForUpdate(ctx context.Context, ref catalog.ProductRef) (ProductInfo, error) {
	table, err := tableFor(ref)
	if err != nil {
		return ProductInfo{}, err
	}
	var p ProductInfo
	err = t.tx.QueryRow(ctx,
		`SELECT price, stock_quantity FROM `+table+` WHERE id=$1 FOR UPDATE`, ref.ID,
	).Scan(&p.Price, &p.Stock)
	if errors.Is(err, pgx.ErrNoRows) {
		return ProductInfo{}, &ProductNotFoundError{Ref: ref}
	}
	return p, err
}

func (t *pgTx) AdjustStock(ctx context.Context, ref catalog.ProductRef, delta int) error {
	table, err := tableFor(ref)
	if err != nil {
		return err
	}
	ct, err := t.tx.Exec(ctx,
		`UPDATE `+table+` SET stock_quantity = stock_quantity + $2 WHERE id=$1`, ref.ID, delta)
	if err != nil {
		return err
	}
	if ct.RowsAffected() != 1 {
		return &ProductNotFoundError{Ref: ref}
	}
	return nil
}

func (t *pgTx) InsertOrder(ctx context.Context, userID int64, total decimal.Decimal) (Order, error) {
	o := Order{UserID: userID, TotalAmount: total, Status: StatusPending}
	err := t.tx.QueryRow(ctx, `
		INSERT INTO orders (user_id, total_amount, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`,
		userID, total, StatusPending,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

func (t *pgTx) InsertLine(ctx context.Context, line Line) error {
	laptopID, miceID := splitRef(line.Ref)
	_, err := t.tx.Exec(ctx, `
		INSERT INTO order_items (order_id, laptop_id, mice_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5)`,
		line.OrderID, laptopID, miceID, line.Quantity, line.UnitPrice)
	return err
}

func (t *pgTx) OrderForUpdate(ctx context.Context, orderID, userID int64) (Order, error) {
	o, err := scanOrder(t.tx.QueryRow(ctx,
		orderCols+` WHERE id=$1 AND user_id=$2 FOR UPDATE`, orderID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrOrderNotFound
	}
	return o, err
}

func (t *pgTx) Lines(ctx context.Context, orderID int64) ([]Line, error) {
	rows, err := t.tx.Query(ctx, lineCols+` WHERE order_id=$1 ORDER BY id`, orderID)
	if err != nil {
		return nil, err
	}
	return collectLines(rows)
}

func (t *pgTx) DeleteLines(ctx context.Context, orderID int64) error {
	_, err := t.tx.Exec(ctx, `DELETE FROM order_items WHERE order_id=$1`, orderID)
	return err
}

func (t *pgTx) SetOrderTotal(ctx context.Context, orderID int64, total decimal.Decimal) (time.Time, error) {
	var updatedAt time.Time
	err := t.tx.QueryRow(ctx,
		`UPDATE orders SET total_amount=$2, updated_at=now() WHERE id=$1 RETURNING updated_at`,
		orderID, total).Scan(&updatedAt)
	return updatedAt, err
}

func (t *pgTx) DeleteOrder(ctx context.Context, orderID int64) error {
	// order_items go with it via ON DELETE CASCADE
	_, err := t.tx.Exec(ctx, `DELETE FROM orders WHERE id=$1`, orderID)
	return err
}

const (
	orderCols = `SELECT id, user_id, total_amount, status, created_at, updated_at FROM orders`
	lineCols  = `SELECT id, order_id, laptop_id, mice_id, quantity, unit_price FROM order_items`
)

func (r *Repo) Order(ctx context.Context, orderID, userID int64) (Order, error) {
	o, err := scanOrder(r.DB.QueryRow(ctx,
		orderCols+` WHERE id=$1 AND user_id=$2`, orderID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrOrderNotFound
	}
	return o, err
}

func (r *Repo) OrdersByUser(ctx context.Context, userID int64) ([]Order, error) {
	rows, err := r.DB.Query(ctx,
		orderCols+` WHERE user_id=$1 ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *Repo) OrderLines(ctx context.Context, orderID int64) ([]Line, error) {
	rows, err := r.DB.Query(ctx, lineCols+` WHERE order_id=$1 ORDER BY id`, orderID)
	if err != nil {
		return nil, err
	}
	return collectLines(rows)
}

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

func collectLines(rows pgx.Rows) ([]Line, error) {
	defer rows.Close()

	var out []Line
	for rows.Next() {
		var (
			l        Line
			laptopID *int64
			miceID   *int64
		)
		if err := rows.Scan(&l.ID, &l.OrderID, &laptopID, &miceID, &l.Quantity, &l.UnitPrice); err != nil {
			return nil, err
		}
		switch {
		case laptopID != nil:
			l.Ref = catalog.ProductRef{Kind: catalog.KindLaptop, ID: *laptopID}
		case miceID != nil:
			l.Ref = catalog.ProductRef{Kind: catalog.KindMouse, ID: *miceID}
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func splitRef(ref catalog.ProductRef) (laptopID, miceID *int64) {
	id := ref.ID
	switch ref.Kind {
	case catalog.KindLaptop:
		laptopID = &id
	case catalog.KindMouse:
		miceID = &id
	}
	return laptopID, miceID
}
