package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mshnjffr/e-commerce-store/internal/catalog"
	"github.com/mshnjffr/e-commerce-store/internal/orders"
	"github.com/mshnjffr/e-commerce-store/internal/users"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"detail": err.Error()})
}

// statusFor maps the domain error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	var (
		invalidItems *orders.InvalidItemsError
		notFound     *orders.ProductNotFoundError
		insufficient *orders.InsufficientStockError
		txFailure    *orders.TransactionError
	)
	switch {
	case errors.As(err, &invalidItems), errors.As(err, &insufficient),
		errors.Is(err, orders.ErrOrderNotPending), errors.Is(err, users.ErrUserExists):
		return http.StatusBadRequest
	case errors.Is(err, users.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.As(err, &notFound), errors.Is(err, orders.ErrOrderNotFound),
		errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &txFailure):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
