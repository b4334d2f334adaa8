package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/mshnjffr/e-commerce-store/internal/kafka"
	"github.com/mshnjffr/e-commerce-store/internal/orders"
	"github.com/mshnjffr/e-commerce-store/internal/users"
)

type OrdersHandler struct {
	Engine   *orders.Engine
	Query    *orders.Query
	Producer *kafkax.Producer
	Service  string
}

func (h *OrdersHandler) Register(r *chi.Mux, auth *users.Service) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Use(Auth(auth))
		r.Post("/", h.create)
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

func (h *OrdersHandler) create(w http.ResponseWriter, r *http.Request) {
	items, ok := decodeItems(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	uid := userID(r)
	order, err := h.Engine.Create(ctx, uid, items)
	if err != nil {
		writeError(w, err)
		return
	}
	h.publish(orders.EventOrderCreated, order, r.Header.Get("X-Request-Id"))

	view, err := h.Query.Get(ctx, order.ID, uid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderResp(view))
}

func (h *OrdersHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	os, err := h.Query.List(ctx, userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]orderResp, 0, len(os))
	for _, o := range os {
		out = append(out, toOrderResp(o))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *OrdersHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid id"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	view, err := h.Query.Get(ctx, id, userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResp(view))
}

func (h *OrdersHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid id"})
		return
	}
	items, ok := decodeItems(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	uid := userID(r)
	order, err := h.Engine.Update(ctx, id, uid, items)
	if err != nil {
		writeError(w, err)
		return
	}
	h.publish(orders.EventOrderUpdated, order, r.Header.Get("X-Request-Id"))

	view, err := h.Query.Get(ctx, id, uid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResp(view))
}

func (h *OrdersHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid id"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	order, err := h.Engine.Delete(ctx, id, userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	h.publish(orders.EventOrderDeleted, order, r.Header.Get("X-Request-Id"))

	writeJSON(w, http.StatusOK, map[string]string{"message": "Order deleted successfully"})
}

func decodeItems(w http.ResponseWriter, r *http.Request) ([]orders.ItemInput, bool) {
	var req orderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid json"})
		return nil, false
	}
	items, err := req.toItems()
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return items, true
}

func (h *OrdersHandler) publish(eventType string, order orders.Order, traceID string) {
	if h.Producer == nil {
		return
	}
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       traceID,
		CorrelationID: string(orders.PartitionKey(order.ID)),
		Payload: kafkax.MustMarshal(orders.OrderEventPayload{
			OrderID:     order.ID,
			UserID:      order.UserID,
			Items:       orders.EventItems(order.Lines),
			TotalAmount: order.TotalAmount.String(),
		}),
	}
	h.Producer.Publish(orders.PartitionKey(order.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
