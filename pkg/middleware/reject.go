package middleware

import (
	"context"
	"net/http"

	httputil "salonhours/pkg/http"
)

// RequestIDFromContext returns the id RequestLogging stored on the request
// context, or "" when the request did not pass through it.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// reject ends the request with a JSON error body. The write error is ignored:
// the status line is already out.
func reject(w http.ResponseWriter, status int, message, code string) {
	_ = httputil.WriteJSON(w, status, httputil.ErrorResponse{Error: message, Code: code})
}
