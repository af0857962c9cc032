package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	dErrors "kyc-gateway/pkg/domain-errors"
	"kyc-gateway/pkg/platform/httputil"
	"kyc-gateway/pkg/requestcontext"
)

// Claims are the JWT claims issued by the identity provider fronting this
// service. Only the user ID is consumed here.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// RequireAuth validates the bearer token and injects the user ID into the
// request context. Token issuance lives outside this service.
func RequireAuth(signingKey string, logger *slog.Logger) func(http.Handler) http.Handler {
	key := []byte(signingKey)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			const bearerPrefix = "Bearer "
			if !strings.HasPrefix(authHeader, bearerPrefix) {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing bearer token"))
				return
			}

			tokenString := strings.TrimPrefix(authHeader, bearerPrefix)
			claims := &Claims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrTokenUnverifiable
				}
				return key, nil
			})
			if err != nil || !token.Valid || claims.UserID == "" {
				logger.WarnContext(r.Context(), "token validation failed", "error", err)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid token"))
				return
			}

			ctx := requestcontext.WithUserID(r.Context(), claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
