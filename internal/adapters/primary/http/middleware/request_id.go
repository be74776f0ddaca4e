package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/otavioq/ticket-metrics-backend/internal/infrastructure/logging"
)

const (
	// RequestIDKey is the context key for request IDs
	RequestIDKey contextKey = "request_id"
	// RequestIDHeader is the HTTP header carrying the request ID
	RequestIDHeader = "X-Request-ID"
)

// RequestID tags every request with an ID, honoring one supplied by the
// caller. The ID is stored under the middleware key for handlers and in the
// logging context, so every log line emitted while serving the request
// carries it without each call site repeating the attribute.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		w.Header().Set(RequestIDHeader, requestID)

		ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
		ctx = logging.WithRequestID(ctx, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID retrieves the request ID from the context
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}
