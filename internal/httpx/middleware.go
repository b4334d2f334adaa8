package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/mshnjffr/e-commerce-store/internal/users"
)

type ctxKey int

const ctxKeyUserID ctxKey = iota

// Auth validates the Bearer token and puts the verified user id on the
// request context. Handlers behind it can assume userID() succeeds.
func Auth(svc *users.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "missing authorization header"})
				return
			}
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "invalid authorization header"})
				return
			}
			uid, err := svc.ValidateToken(parts[1])
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "invalid or expired token"})
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKeyUserID, uid)))
		})
	}
}

func userID(r *http.Request) int64 {
	uid, _ := r.Context().Value(ctxKeyUserID).(int64)
	return uid
}
