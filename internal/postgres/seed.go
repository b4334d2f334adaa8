package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type seedLaptop struct {
	brand, model, processor, graphics string
	ramGB, storageGB                  int
	screenSize                        float64
	price                             string
	stock                             int
}

type seedMouse struct {
	brand, model, mouseType, connectivity string
	dpi, buttons, weightGrams             int
	rgb                                   bool
	price                                 string
	stock                                 int
}

var seedLaptops = []seedLaptop{
	{"Apple", "MacBook Pro 16-inch M4", "Apple M4 Pro", "Apple GPU", 18, 512, 16.2, "2499.00", 10},
	{"Dell", "XPS 13 Plus 9340", "Intel Core Ultra 7 155H", "Intel Arc Graphics", 16, 1000, 13.4, "1299.00", 15},
	{"Lenovo", "ThinkPad X1 Carbon Gen 12", "Intel Core Ultra 7 165U", "Intel Graphics", 32, 1000, 14.0, "1899.00", 8},
	{"HP", "Spectre x360 16", "Intel Core Ultra 7 155H", "Intel Arc Graphics", 16, 1000, 16.0, "1699.00", 12},
	{"ASUS", "ROG Zephyrus G16", "AMD Ryzen 9 8945HS", "NVIDIA RTX 4070", 32, 1000, 16.0, "2299.00", 6},
	{"Microsoft", "Surface Laptop Studio 2", "Intel Core i7-13700H", "NVIDIA RTX 4060", 32, 1000, 14.4, "2399.00", 7},
	{"Razer", "Blade 16", "Intel Core i9-14900HX", "NVIDIA RTX 4080", 32, 2000, 16.0, "3499.00", 4},
	{"Alienware", "m18 R2", "Intel Core i9-14900HX", "NVIDIA RTX 4090", 64, 2000, 18.0, "4299.00", 3},
	{"LG", "Gram 17", "Intel Core Ultra 7 155H", "Intel Arc Graphics", 16, 1000, 17.0, "1599.00", 9},
	{"Samsung", "Galaxy Book4 Ultra", "Intel Core Ultra 9 185H", "NVIDIA RTX 4070", 32, 1000, 16.0, "2399.00", 5},
}

var seedMice = []seedMouse{
	{"Logitech", "G Pro X Superlight 2", "Gaming", "Wireless", 32000, 5, 60, true, "149.99", 20},
	{"Razer", "DeathAdder V3 Pro", "Gaming", "Wireless", 30000, 8, 90, true, "129.99", 15},
	{"SteelSeries", "Rival 650", "Gaming", "Wired", 12000, 7, 121, true, "79.99", 18},
	{"Corsair", "Dark Core RGB Pro SE", "Gaming", "Wireless", 18000, 8, 133, true, "89.99", 12},
	{"ASUS", "ROG Keris Wireless", "Gaming", "Wireless", 16000, 6, 79, true, "99.99", 14},
	{"HyperX", "Pulsefire Haste 2", "Gaming", "Wireless", 26000, 6, 59, true, "79.99", 16},
	{"Logitech", "MX Master 3S", "Productivity", "Wireless", 8000, 7, 141, false, "99.99", 25},
	{"Microsoft", "Surface Precision Mouse", "Productivity", "Bluetooth", 3200, 3, 135, false, "99.99", 22},
	{"Apple", "Magic Mouse", "Productivity", "Bluetooth", 1300, 2, 99, false, "79.00", 30},
	{"Razer", "Basilisk V3 Pro", "Gaming", "Wireless", 30000, 11, 112, true, "159.99", 10},
	{"Finalmouse", "UltralightX", "Gaming", "Wired", 25600, 5, 47, false, "189.99", 8},
	{"Glorious", "Model O 2 Wireless", "Gaming", "Wireless", 26000, 6, 63, true, "79.99", 19},
}

var seedUsers = [][3]string{
	{"john_doe", "john@example.com", "password123"},
	{"jane_smith", "jane@example.com", "securepass456"},
}

// Seed populates the catalog and demo users once. It is a no-op when the
// laptops table already has rows.
func Seed(ctx context.Context, db *pgxpool.Pool) error {
	var n int
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM laptops`).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	for _, l := range seedLaptops {
		if _, err := db.Exec(ctx, `
			INSERT INTO laptops (brand, model, processor, ram_gb, storage_gb, graphics, screen_size, price, stock_quantity)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			l.brand, l.model, l.processor, l.ramGB, l.storageGB, l.graphics, l.screenSize, l.price, l.stock,
		); err != nil {
			return err
		}
	}
	for _, m := range seedMice {
		if _, err := db.Exec(ctx, `
			INSERT INTO mice (brand, model, mouse_type, connectivity, dpi, buttons, rgb_lighting, weight_grams, price, stock_quantity)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
			m.brand, m.model, m.mouseType, m.connectivity, m.dpi, m.buttons, m.rgb, m.weightGrams, m.price, m.stock,
		); err != nil {
			return err
		}
	}
	for _, u := range seedUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(u[2]), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		if _, err := db.Exec(ctx, `
			INSERT INTO users (username, email, password_hash) VALUES ($1,$2,$3)
			ON CONFLICT (username) DO NOTHING`,
			u[0], u[1], string(hash),
		); err != nil {
			return err
		}
	}
	return nil
}
