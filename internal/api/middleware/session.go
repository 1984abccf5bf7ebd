package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/gharfindr/rental-api/internal/core/ports"
)

// SessionHeader is the header clients echo the server-side session id in.
const SessionHeader = "X-Session-ID"

// Session renews the rolling inactivity window of the session named in the
// request header. A missing or expired session does not fail the request;
// the bearer token alone decides authentication, the session only tracks
// server-side state.
func Session(store ports.SessionStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if sid := c.Request().Header.Get(SessionHeader); sid != "" {
				if accountID, err := store.Get(c.Request().Context(), sid); err == nil {
					c.Set("session_id", sid)
					c.Set("session_account_id", accountID)
				}
			}
			return next(c)
		}
	}
}
