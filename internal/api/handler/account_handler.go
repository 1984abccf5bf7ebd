package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gharfindr/rental-api/internal/core/domain"
	"github.com/gharfindr/rental-api/internal/core/ports"
)

// AccountHandler exposes operator actions on accounts. All routes are
// admin-only, enforced by the RBAC middleware.
type AccountHandler struct {
	accounts ports.AccountService
}

func NewAccountHandler(accounts ports.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

type accountStatsResponse struct {
	AccountID     string               `json:"account_id"`
	Email         string               `json:"email"`
	LoginStats    domain.LoginStats    `json:"login_stats"`
	SecurityStats domain.SecurityStats `json:"security_stats"`
	SessionStats  domain.SessionStats  `json:"session_stats"`
	ActivityStats domain.ActivityStats `json:"activity_stats"`
}

// Stats returns the security and activity counters for one account.
//
// @Summary      Account statistics
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Account id"
// @Success      200  {object}  accountStatsResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /accounts/{id}/stats [get]
func (h *AccountHandler) Stats(c echo.Context) error {
	stats, err := h.accounts.Stats(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, accountStatsResponse{
		AccountID:     stats.AccountID,
		Email:         stats.Email,
		LoginStats:    stats.LoginStats,
		SecurityStats: stats.SecurityStats,
		SessionStats:  stats.SessionStats,
		ActivityStats: stats.ActivityStats,
	})
}

// Unlock clears an account lock ahead of its expiry.
//
// @Summary      Unlock a locked account
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Account id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /accounts/{id}/unlock [post]
func (h *AccountHandler) Unlock(c echo.Context) error {
	if err := h.accounts.Unlock(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "account unlocked"})
}
