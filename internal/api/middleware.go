// Package api implements the StudentHub REST API using chi.
package api

import (
	"net/http"
	"strings"

	"github.com/studenthub/studenthub/internal/identity"
)

// AuthMiddleware returns middleware that validates a Bearer token.
// If enabled is false, all requests pass through (disabled mode).
// If enabled is true, requests must carry a valid "Authorization: Bearer <token>" header.
func AuthMiddleware(enabled bool, token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !enabled {
				next.ServeHTTP(w, r)
				return
			}
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") || strings.TrimPrefix(auth, "Bearer ") != token {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// IdentityMiddleware resolves the requester identity from the X-User header
// and stores it in the request context. Requests without the header run as
// the default local viewer.
func IdentityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimSpace(r.Header.Get("X-User"))
		if name == "" {
			name = identity.DefaultUser
		}
		ctx := identity.NewContext(r.Context(), identity.User{Name: name})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
