package stockwatch

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/mshnjffr/e-commerce-store/internal/catalog"
	"github.com/mshnjffr/e-commerce-store/internal/orders"
	"github.com/mshnjffr/e-commerce-store/internal/redisx"
)

// KV is the slice of redis the watcher uses for dedup marks and alert keys.
type KV interface {
	Exists(ctx context.Context, key string) (bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

type redisKV struct {
	rdb *redis.Client
}

func (r redisKV) Exists(ctx context.Context, key string) (bool, error) {
	return redisx.Exists(ctx, r.rdb, key)
}

func (r redisKV) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.rdb.Set(ctx, key, value, ttl).Err()
}

// NewKV wraps a redis client for the watcher.
func NewKV(rdb *redis.Client) KV { return redisKV{rdb: rdb} }

// Service watches order events and flags products whose stock has dropped to
// the threshold. It only reads stock; every stock mutation happens inside
// the order engine's transactions.
type Service struct {
	Catalog     orders.CatalogReader
	KV          KV
	Log         *zap.Logger
	ServiceName string
	Threshold   int
}

// HandleOrderEvent is attached as the consumer handler for orders.events.
func (s *Service) HandleOrderEvent(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	switch env.EventType {
	case orders.EventOrderCreated, orders.EventOrderUpdated:
		// stock went down, worth checking
	default:
		return nil
	}

	// dedup by event id so redelivery does not re-alert
	dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
	if exists, _ := s.KV.Exists(ctx, dkey); exists {
		return nil
	}

	var p orders.OrderEventPayload
	if err := json.Unmarshal(env.Payload, &p); err != nil {
		return err
	}

	for _, it := range p.Items {
		ref := catalog.ProductRef{Kind: catalog.Kind(it.ProductKind), ID: it.ProductID}
		stock, err := s.currentStock(ctx, ref)
		if err != nil {
			s.Log.Warn("stock lookup failed", zap.String("product", ref.String()), zap.Error(err))
			continue
		}
		if stock > s.Threshold {
			continue
		}
		s.Log.Warn("low stock",
			zap.String("product", ref.String()),
			zap.Int("remaining", stock),
			zap.Int64("order_id", p.OrderID))
		akey := fmt.Sprintf(redisx.KeyStockAlert, ref.Kind, ref.ID)
		_ = s.KV.Set(ctx, akey, strconv.Itoa(stock), redisx.TTLStockAlert)
	}
	// mark only after the event was fully handled so a failed run is retried
	_ = s.KV.Set(ctx, dkey, "1", redisx.TTLDedup)
	return nil
}

func (s *Service) currentStock(ctx context.Context, ref catalog.ProductRef) (int, error) {
	switch ref.Kind {
	case catalog.KindLaptop:
		l, err := s.Catalog.Laptop(ctx, ref.ID)
		if err != nil {
			return 0, err
		}
		return l.StockQuantity, nil
	case catalog.KindMouse:
		m, err := s.Catalog.Mouse(ctx, ref.ID)
		if err != nil {
			return 0, err
		}
		return m.StockQuantity, nil
	default:
		return 0, fmt.Errorf("unknown product kind %q", ref.Kind)
	}
}
