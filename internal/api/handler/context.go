package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gharfindr/rental-api/internal/core/domain"
	"github.com/gharfindr/rental-api/internal/core/ports"
)

// ctxActor extracts the auth claims injected by the Auth middleware and
// performs a fast-fail check before any service call: both the account id
// and a valid role must be present, otherwise the token is structurally
// valid but operationally unusable.
func ctxActor(c echo.Context) (ports.ActorInput, error) {
	accountID, _ := c.Get("account_id").(string)
	roleStr, _ := c.Get("role").(string)

	role := domain.Role(roleStr)
	if accountID == "" || !role.Valid() {
		return ports.ActorInput{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	return ports.ActorInput{AccountID: accountID, Role: role}, nil
}
