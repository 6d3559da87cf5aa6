package response

import (
	"net/http"

	appctx "github.com/contacthub/contacthub/internal/pkg/context"
)

// RequestIDFromRequest extracts the request id the middleware stored.
func RequestIDFromRequest(r *http.Request) string {
	return appctx.GetRequestID(r.Context())
}
