package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"evently/internal/delivery/http/helpers"
	"evently/internal/domain"
)

type contextKey string

const (
	userIDKey contextKey = "userID"
	rolesKey  contextKey = "roles"
)

// SetPrincipal returns a context carrying the authenticated user ID and roles.
func SetPrincipal(ctx context.Context, userID string, roles []string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, rolesKey, roles)
}

// UserIDFromContext returns the authenticated user ID from the context, if present.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok
}

// HasRole reports whether the authenticated principal carries the given role.
func HasRole(ctx context.Context, role string) bool {
	roles, ok := ctx.Value(rolesKey).([]string)
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// RequireAuth returns a wrapper that validates the Bearer token and sets the
// principal in the request context. If the token is missing or invalid, it
// responds with 401 and does not call next.
func RequireAuth(verifier domain.TokenVerifier, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "missing authorization header")
				return
			}
			const prefix = "Bearer "
			if !strings.HasPrefix(auth, prefix) {
				helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "invalid authorization format")
				return
			}
			token := strings.TrimSpace(auth[len(prefix):])
			if token == "" {
				helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "missing token")
				return
			}
			userID, roles, err := verifier.Verify(token)
			if err != nil {
				helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "invalid or expired token")
				return
			}
			r = r.WithContext(SetPrincipal(r.Context(), userID, roles))
			next(w, r)
		}
	}
}

// RequireRole returns a wrapper that rejects principals lacking the role with
// 403. Must run inside RequireAuth.
func RequireRole(role string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if !HasRole(r.Context(), role) {
				helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "insufficient permissions")
				return
			}
			next(w, r)
		}
	}
}
