package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/rumbo-cms/rumbo/internal/server"
)

type contextKey string

const (
	// ContextKeyAdminID is the context key for the authenticated admin's UUID.
	ContextKeyAdminID contextKey = "admin_id"
	// ContextKeyEmail is the context key for the authenticated admin's email.
	ContextKeyEmail contextKey = "email"
)

// Middleware validates JWT Bearer tokens from the Authorization header. On
// success it stores the admin ID and email in the request context; on
// failure it writes a 401 JSON error.
func Middleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				server.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing authorization header", nil)
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				server.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid authorization header format", nil)
				return
			}

			claims, err := ValidateAccessToken(parts[1], jwtSecret)
			if err != nil {
				server.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token", nil)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyAdminID, claims.AdminID())
			ctx = context.WithValue(ctx, ContextKeyEmail, claims.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminIDFromContext returns the authenticated admin's UUID, or an empty
// string if no admin is authenticated.
func AdminIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(ContextKeyAdminID).(string)
	return v
}

// EmailFromContext returns the authenticated admin's email, or an empty
// string if no admin is authenticated.
func EmailFromContext(ctx context.Context) string {
	v, _ := ctx.Value(ContextKeyEmail).(string)
	return v
}
