package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/arenaplay/wallet-core/internal/core/ports"
)

// RequireSession rejects requests arriving before a session is established.
// Wallet routes are meaningless without a bearer token to authorize the
// upstream calls.
func RequireSession(sessions ports.SessionService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s := sessions.Current()
			if s.Loading {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "session restore in progress")
			}
			if !s.Authenticated {
				return echo.NewHTTPError(http.StatusUnauthorized, "not logged in")
			}
			return next(c)
		}
	}
}
