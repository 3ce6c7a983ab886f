package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/ardiwn/shop-api/internal/auth"
)

type contextKey struct{}

var claimsKey contextKey

// Authenticator gates every protected route: it verifies the bearer token
// and attaches the decoded claims to the request context before any
// business logic runs. Missing, malformed, wrongly signed, and expired
// tokens are all rejected with 401.
func Authenticator(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				writeJSON(w, http.StatusUnauthorized, APIResponse{
					Success: false,
					Message: "JWT required",
				})
				return
			}

			claims, err := tokens.Verify(token)
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, APIResponse{
					Success: false,
					Message: "invalid or expired token",
				})
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
		})
	}
}

// ClaimsFromContext returns the claims attached by Authenticator.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok
}
