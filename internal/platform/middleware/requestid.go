package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"kyc-gateway/pkg/requestcontext"
)

const requestIDHeader = "X-Request-Id"

// RequestID assigns each request an ID (reusing the inbound header when the
// caller supplied one) and echoes it on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)
		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
