package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/d-medvedev/habits-api/internal/config"
)

type contextKey string

const claimsContextKey contextKey = "user_claims"

var ErrNoClaims = errors.New("no user claims in context")

// AuthMiddleware rejects requests without a valid access token.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := claimsFromRequest(r)
		if err != nil {
			config.WithContext(r.Context()).WithError(err).Warn("Unauthenticated request")
			config.JSON(w, http.StatusUnauthorized, map[string]string{"detail": "authentication required"})
			return
		}
		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
	})
}

// OptionalAuthMiddleware attaches claims when a valid token is present and
// passes the request through either way.
func OptionalAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims, err := claimsFromRequest(r); err == nil {
			r = r.WithContext(withClaims(r.Context(), claims))
		}
		next.ServeHTTP(w, r)
	})
}

// GetUserClaimsFromContext returns the claims stored by the middleware.
func GetUserClaimsFromContext(ctx context.Context) (*Claims, error) {
	claims, ok := ctx.Value(claimsContextKey).(*Claims)
	if !ok || claims == nil {
		return nil, ErrNoClaims
	}
	return claims, nil
}

// ContextWithClaims returns a context carrying the claims, as the middleware
// would produce.
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return withClaims(ctx, claims)
}

func withClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

func claimsFromRequest(r *http.Request) (*Claims, error) {
	tokenStr := tokenFromRequest(r)
	if tokenStr == "" {
		return nil, errors.New("missing credentials")
	}
	claims, err := ValidateJWT(tokenStr)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeAccess {
		return nil, errors.New("not an access token")
	}
	return claims, nil
}

func tokenFromRequest(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := r.Cookie("jwt"); err == nil {
		return cookie.Value
	}
	return ""
}
