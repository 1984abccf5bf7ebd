package api

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/gharfindr/rental-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Lockout refusals carry the retry deadline.
	var locked *domain.LockedError
	if errors.As(err, &locked) {
		minutes := int(math.Ceil(locked.RetryIn(time.Now().UTC()).Minutes()))
		if minutes < 1 {
			minutes = 1
		}
		return http.StatusLocked, fmt.Sprintf("account locked, try again in %d minute(s)", minutes)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrEmailExists):
		return http.StatusBadRequest, "email already exists"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid email or password"
	case errors.Is(err, domain.ErrNotVerified):
		return http.StatusUnauthorized, "please verify your email before logging in"
	case errors.Is(err, domain.ErrAlreadyVerified):
		return http.StatusBadRequest, "email already verified"
	case errors.Is(err, domain.ErrCodeMismatch):
		return http.StatusBadRequest, "invalid verification code"
	case errors.Is(err, domain.ErrCodeExpired):
		return http.StatusBadRequest, "verification code expired"
	case errors.Is(err, domain.ErrInvalidResetToken):
		return http.StatusNotFound, "invalid or expired reset token"
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound, "account not found"
	case errors.Is(err, domain.ErrListingNotFound):
		return http.StatusNotFound, "listing not found"
	case errors.Is(err, domain.ErrOrderNotFound):
		return http.StatusNotFound, "order not found"
	case errors.Is(err, domain.ErrOrderNotPayable):
		return http.StatusConflict, "order cannot be paid"
	case errors.Is(err, domain.ErrBadSignature):
		return http.StatusBadRequest, "payment signature mismatch"
	case errors.Is(err, domain.ErrPaymentNotComplete):
		return http.StatusBadRequest, "payment not completed"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
