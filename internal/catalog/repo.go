package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/mshnjffr/e-commerce-store/internal/redisx"
)

var ErrNotFound = errors.New("product not found")

// Repo is the read path of the two product catalogs. List results go through
// a short-TTL redis cache; stock shown there may lag committed orders.
type Repo struct {
	DB    *pgxpool.Pool
	Cache *redis.Client
}

const laptopCols = `id, brand, model, processor, ram_gb, storage_gb, graphics, screen_size, price, stock_quantity, created_at`

func scanLaptop(row pgx.Row) (Laptop, error) {
	var l Laptop
	err := row.Scan(&l.ID, &l.Brand, &l.Model, &l.Processor, &l.RAMGB, &l.StorageGB,
		&l.Graphics, &l.ScreenSize, &l.Price, &l.StockQuantity, &l.CreatedAt)
	return l, err
}

func (r *Repo) Laptops(ctx context.Context) ([]Laptop, error) {
	key := fmt.Sprintf(redisx.KeyCatalogList, KindLaptop)
	if r.Cache != nil {
		if s, err := r.Cache.Get(ctx, key).Result(); err == nil {
			var out []Laptop
			if json.Unmarshal([]byte(s), &out) == nil {
				return out, nil
			}
		}
	}

	rows, err := r.DB.Query(ctx, `SELECT `+laptopCols+` FROM laptops ORDER BY brand, model`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Laptop
	for rows.Next() {
		l, err := scanLaptop(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if r.Cache != nil {
		if b, err := json.Marshal(out); err == nil {
			_ = r.Cache.Set(ctx, key, b, redisx.TTLCatalogCache).Err()
		}
	}
	return out, nil
}

func (r *Repo) Laptop(ctx context.Context, id int64) (Laptop, error) {
	l, err := scanLaptop(r.DB.QueryRow(ctx, `SELECT `+laptopCols+` FROM laptops WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Laptop{}, ErrNotFound
	}
	return l, err
}

const mouseCols = `id, brand, model, mouse_type, connectivity, dpi, buttons, rgb_lighting, weight_grams, price, stock_quantity, created_at`

func scanMouse(row pgx.Row) (Mouse, error) {
	var m Mouse
	err := row.Scan(&m.ID, &m.Brand, &m.Model, &m.MouseType, &m.Connectivity, &m.DPI,
		&m.Buttons, &m.RGBLighting, &m.WeightGrams, &m.Price, &m.StockQuantity, &m.CreatedAt)
	return m, err
}

func (r *Repo) Mice(ctx context.Context) ([]Mouse, error) {
	key := fmt.Sprintf(redisx.KeyCatalogList, KindMouse)
	if r.Cache != nil {
		if s, err := r.Cache.Get(ctx, key).Result(); err == nil {
			var out []Mouse
			if json.Unmarshal([]byte(s), &out) == nil {
				return out, nil
			}
		}
	}

	rows, err := r.DB.Query(ctx, `SELECT `+mouseCols+` FROM mice ORDER BY brand, model`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Mouse
	for rows.Next() {
		m, err := scanMouse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if r.Cache != nil {
		if b, err := json.Marshal(out); err == nil {
			_ = r.Cache.Set(ctx, key, b, redisx.TTLCatalogCache).Err()
		}
	}
	return out, nil
}

func (r *Repo) Mouse(ctx context.Context, id int64) (Mouse, error) {
	m, err := scanMouse(r.DB.QueryRow(ctx, `SELECT `+mouseCols+` FROM mice WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Mouse{}, ErrNotFound
	}
	return m, err
}
