package redisx

import "time"

const (
	// Catalog list cache: catalog:{kind} -> JSON array
	KeyCatalogList = "catalog:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"

	// Low stock alert: stock:alert:{kind}:{product_id} -> remaining quantity
	KeyStockAlert = "stock:alert:%s:%d"
)

var (
	// Catalog readers tolerate transient staleness; stock shown in listings
	// may lag a committed order by up to this TTL.
	TTLCatalogCache = 30 * time.Second
	TTLDedup        = 48 * time.Hour
	TTLStockAlert   = 24 * time.Hour
)
