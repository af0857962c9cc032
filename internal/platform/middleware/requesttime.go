package middleware

import (
	"net/http"
	"time"

	"kyc-gateway/pkg/requestcontext"
)

// RequestTime captures one timestamp at the start of the request so every
// timestamp written while handling it agrees.
func RequestTime(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
