package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// TokenVerifier validates a bearer token and returns the user it belongs
// to. Satisfied by service.AuthService.
type TokenVerifier interface {
	VerifyToken(token string) (uuid.UUID, error)
}

type contextKey int

const userIDKey contextKey = iota

// NewAuthHandler returns a middleware that requires a valid
// "Authorization: Bearer <token>" header on every request it wraps.
// On success the authenticated user ID is stored in the request context
// (retrieve it with UserID); on failure the request is rejected with 401.
func NewAuthHandler(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				unauthorized(w)
				return
			}
			userID, err := verifier.VerifyToken(token)
			if err != nil {
				unauthorized(w)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":{"code":"unauthorized","message":"missing or invalid token"}}`))
}

// WithUserID returns a context carrying the authenticated user ID.
// Exported so handler tests can inject an identity without minting tokens.
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserID extracts the authenticated user ID placed by NewAuthHandler.
func UserID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey).(uuid.UUID)
	return id, ok
}
