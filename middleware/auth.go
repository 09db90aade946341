package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Mandeep003/nestle-truck-monitor/auth"
	"github.com/Mandeep003/nestle-truck-monitor/models"
)

type contextKey string

const RoleContextKey contextKey = "role"

// RoleMiddleware resolves the session token to a role and injects it into the
// request context. Requests with no token or an invalid one proceed as
// Viewer: the board is world-readable and every mutation is rejected by the
// engine's own authorization checks.
func RoleMiddleware(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := models.RoleViewer

			if authHeader := r.Header.Get("Authorization"); authHeader != "" {
				token, err := auth.ExtractToken(authHeader)
				if err == nil {
					if claims, err := jwtManager.ValidateToken(token); err == nil {
						role = claims.Role
					}
				}
			}

			ctx := context.WithValue(r.Context(), RoleContextKey, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetRoleFromContext retrieves the acting role from the request context,
// defaulting to Viewer.
func GetRoleFromContext(ctx context.Context) models.Role {
	if role, ok := ctx.Value(RoleContextKey).(models.Role); ok {
		return role
	}
	return models.RoleViewer
}

// RequireRole middleware rejects requests whose session role is not in the
// allowed set.
func RequireRole(allowedRoles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := GetRoleFromContext(r.Context())

			hasRole := false
			for _, allowed := range allowedRoles {
				if role == allowed {
					hasRole = true
					break
				}
			}

			if !hasRole {
				writeError(w, "Insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}
