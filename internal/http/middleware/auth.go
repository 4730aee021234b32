package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/circlehq/circles-api/internal/http/response"
	"github.com/circlehq/circles-api/pkg/auth"
	"github.com/circlehq/circles-api/pkg/logger"
)

type ctxKey string

const CtxClaims ctxKey = "claims"

// RequireUser authenticates the bearer token and stashes the claims
// plus the user id for request logging.
func RequireUser(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := r.Header.Get("Authorization")
			if !strings.HasPrefix(authz, "Bearer ") {
				response.Unauthorized(w, "Missing or invalid authorization header")
				return
			}

			raw := strings.TrimPrefix(authz, "Bearer ")
			claims, err := auth.Parse(raw, secret)
			if err != nil {
				response.Unauthorized(w, "Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), CtxClaims, claims)
			ctx = context.WithValue(ctx, logger.UserIDKey, claims.Sub)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Claims returns the authenticated claims, or nil outside RequireUser.
func Claims(r *http.Request) *auth.Claims {
	v := r.Context().Value(CtxClaims)
	if v == nil {
		return nil
	}
	return v.(*auth.Claims)
}

// UserID returns the authenticated user id, or "" outside RequireUser.
func UserID(r *http.Request) string {
	if c := Claims(r); c != nil {
		return c.Sub
	}
	return ""
}
