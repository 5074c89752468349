package middleware

import (
	"net/http"
	"strings"

	"client-gate/internal/domain"

	"github.com/labstack/echo/v4"
)

// Context keys set by the auth middleware chain.
const (
	// IdentityKey holds the *domain.Identity resolved from the bearer token.
	IdentityKey = "gate.identity"
	// ActorKey holds the caller's *domain.DirectoryUser, set by RequireAdmin.
	ActorKey = "gate.actor"
)

// BearerAuth resolves the Authorization bearer token to an identity through
// the provider and stores it in the request context. No token, or a token the
// provider rejects, ends the request with 401.
func BearerAuth(provider domain.IdentityProvider) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(auth, "Bearer ")
			if !ok || token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "bearer token required")
			}

			identity, err := provider.VerifyToken(c.Request().Context(), token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			c.Set(IdentityKey, identity)
			return next(c)
		}
	}
}
