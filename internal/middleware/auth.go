package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	domauth "github.com/bryanwahyu/mindanalyzer/internal/domain/auth"
)

type contextKey string

const userIDKey contextKey = "user_id"

// unauthenticated paths skipped by auth and rate limiting
func publicPath(p string) bool {
	switch p {
	case "/health", "/ready", "/live", "/metrics":
		return true
	}
	return false
}

// BearerAuth resolves the caller identity from the Authorization header
// via the auth collaborator and stores it in the request context. The
// pipeline itself never parses credentials.
func BearerAuth(resolver domauth.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if publicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			credential := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			if header == "" || credential == "" {
				writeUnauthorized(w, "authorization token is missing")
				return
			}

			userID, err := resolver.Resolve(r.Context(), credential)
			if err != nil {
				writeUnauthorized(w, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the resolved caller identity, if any
func UserFromContext(ctx context.Context) (domauth.UserID, bool) {
	id, ok := ctx.Value(userIDKey).(domauth.UserID)
	return id, ok
}

func writeUnauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "UNAUTHORIZED", "message": msg})
}
