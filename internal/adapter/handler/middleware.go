package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/phuc2705/Project-Sach/internal/port"
)

const requestIDHeader = "X-Request-Id"

type principalKey struct{}

type requestIDKey struct{}

// PrincipalFromContext returns the authenticated user id injected by
// Authenticate.
func PrincipalFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(principalKey{}).(int64)
	return id, ok
}

// RequestID assigns every request a correlation id, reusing the caller's
// header when present.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := context.WithValue(r.Context(), requestIDKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Authenticate verifies the bearer credential and threads the resolved
// principal into the request context as a typed value. Verification fails
// closed: missing, malformed and expired tokens all end the request here.
func Authenticate(tokens port.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeMessage(w, http.StatusUnauthorized, "Token is missing!")
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeMessage(w, http.StatusUnauthorized, "Token is invalid!")
				return
			}

			userID, err := tokens.Verify(parts[1])
			if err != nil {
				writeMessage(w, http.StatusUnauthorized, "Token is invalid!")
				return
			}

			ctx := context.WithValue(r.Context(), principalKey{}, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
