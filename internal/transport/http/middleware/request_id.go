package middleware

import (
	"net/http"

	"github.com/google/uuid"

	appctx "github.com/contacthub/contacthub/internal/pkg/context"
)

const HeaderXRequestID = "X-Request-Id"

// RequestID propagates an inbound request id or mints one.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(HeaderXRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
		}

		w.Header().Set(HeaderXRequestID, reqID)

		next.ServeHTTP(w, r.WithContext(appctx.WithRequestID(r.Context(), reqID)))
	})
}
