package middleware

import (
	"net/http"

	"github.com/google/uuid"
)

// RequestIDHeader is the header carrying the request ID, set on every
// response and honored on incoming requests from trusted proxies.
const RequestIDHeader = "X-Request-ID"

// RequestID assigns each request a UUID, unless the proxy already
// stamped one, and exposes it in the response headers and context.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		w.Header().Set(RequestIDHeader, requestID)
		next.ServeHTTP(w, r.WithContext(WithRequestID(r.Context(), requestID)))
	})
}
