package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS laptops (
		id             BIGSERIAL PRIMARY KEY,
		brand          TEXT NOT NULL,
		model          TEXT NOT NULL,
		processor      TEXT NOT NULL,
		ram_gb         INT NOT NULL,
		storage_gb     INT NOT NULL,
		graphics       TEXT NOT NULL,
		screen_size    DOUBLE PRECISION NOT NULL,
		price          NUMERIC(10,2) NOT NULL CHECK (price > 0),
		stock_quantity INT NOT NULL DEFAULT 0 CHECK (stock_quantity >= 0),
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS mice (
		id             BIGSERIAL PRIMARY KEY,
		brand          TEXT NOT NULL,
		model          TEXT NOT NULL,
		mouse_type     TEXT NOT NULL,
		connectivity   TEXT NOT NULL,
		dpi            INT NOT NULL,
		buttons        INT NOT NULL,
		rgb_lighting   BOOLEAN NOT NULL DEFAULT FALSE,
		weight_grams   INT NOT NULL,
		price          NUMERIC(10,2) NOT NULL CHECK (price > 0),
		stock_quantity INT NOT NULL DEFAULT 0 CHECK (stock_quantity >= 0),
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGSERIAL PRIMARY KEY,
		username      TEXT UNIQUE NOT NULL,
		email         TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id           BIGSERIAL PRIMARY KEY,
		user_id      BIGINT NOT NULL REFERENCES users(id),
		total_amount NUMERIC(12,2) NOT NULL,
		status       TEXT NOT NULL DEFAULT 'pending',
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id         BIGSERIAL PRIMARY KEY,
		order_id   BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		laptop_id  BIGINT REFERENCES laptops(id),
		mice_id    BIGINT REFERENCES mice(id),
		quantity   INT NOT NULL CHECK (quantity > 0),
		unit_price NUMERIC(10,2) NOT NULL,
		CHECK ((laptop_id IS NOT NULL AND mice_id IS NULL) OR (laptop_id IS NULL AND mice_id IS NOT NULL))
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_user_created ON orders (user_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items (order_id)`,
}

// Migrate creates the schema. Statements are idempotent so this runs at
// every startup.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
