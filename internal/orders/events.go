package orders

import (
	"encoding/json"
	"strconv"
	"time"
)

const (
	EventOrderCreated = "OrderCreated"
	EventOrderUpdated = "OrderUpdated"
	EventOrderDeleted = "OrderDeleted"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order id
	Payload       json.RawMessage `json:"payload"`
}

type EventItem struct {
	ProductKind string `json:"product_kind"` // "laptop" | "mouse"
	ProductID   int64  `json:"product_id"`
	Quantity    int    `json:"quantity"`
}

type OrderEventPayload struct {
	OrderID     int64       `json:"order_id"`
	UserID      int64       `json:"user_id"`
	Items       []EventItem `json:"items"`
	TotalAmount string      `json:"total_amount"`
}

// EventItems flattens an order's lines for an event payload.
func EventItems(lines []Line) []EventItem {
	out := make([]EventItem, 0, len(lines))
	for _, l := range lines {
		out = append(out, EventItem{
			ProductKind: string(l.Ref.Kind),
			ProductID:   l.Ref.ID,
			Quantity:    l.Quantity,
		})
	}
	return out
}

// PartitionKey keeps every event of one order on one partition, preserving
// order-level event ordering.
func PartitionKey(orderID int64) []byte {
	return []byte(strconv.FormatInt(orderID, 10))
}
