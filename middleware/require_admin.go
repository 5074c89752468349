package middleware

import (
	"errors"
	"net/http"

	"client-gate/internal/domain"

	"github.com/labstack/echo/v4"
)

// RequireAdmin looks the authenticated identity up in the directory and
// admits only admins (global or client). The directory record, not the
// token, decides: privileges are re-derived on every request. Runs after
// BearerAuth.
func RequireAdmin(directory domain.DirectoryStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := c.Get(IdentityKey).(*domain.Identity)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			actor, err := directory.GetUser(c.Request().Context(), identity.UID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return echo.NewHTTPError(http.StatusForbidden, "insufficient privileges")
				}
				return echo.NewHTTPError(http.StatusInternalServerError, "directory store unavailable")
			}
			if !actor.IsAdmin && !actor.IsClientAdmin {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient privileges")
			}

			c.Set(ActorKey, actor)
			return next(c)
		}
	}
}
