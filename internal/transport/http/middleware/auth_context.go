package middleware

import (
	"context"

	"github.com/contacthub/contacthub/internal/domain"
)

type ctxKey string

const ctxUser ctxKey = "current_user"

// WithUser stores the authenticated user for downstream handlers.
func WithUser(ctx context.Context, u domain.User) context.Context {
	return context.WithValue(ctx, ctxUser, u)
}

// UserFromContext returns the authenticated user injected by Auth.
func UserFromContext(ctx context.Context) (domain.User, bool) {
	u, ok := ctx.Value(ctxUser).(domain.User)
	return u, ok && u.ID != 0
}
