package middleware

import (
	"net/http"
	"strings"

	"github.com/contacthub/contacthub/internal/domain"
)

// RequireRole allows the request through only when the authenticated
// user's role is in the allowed set. Assumes Auth ran first.
func RequireRole(writeErr WriteErrFunc, allowed ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := UserFromContext(r.Context())
			if !ok {
				// Auth was not applied, or the context got lost.
				writeErr(w, r, domain.ErrTokenInvalid())
				return
			}

			if !domain.RoleAllowed(u.Role, allowed...) {
				writeErr(w, r, domain.ErrInsufficientRole(rolesLabel(allowed)))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func rolesLabel(roles []domain.Role) string {
	parts := make([]string, len(roles))
	for i, role := range roles {
		parts[i] = string(role)
	}
	return strings.Join(parts, "|")
}
