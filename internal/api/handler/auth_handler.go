package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gharfindr/rental-api/internal/api/metrics"
	"github.com/gharfindr/rental-api/internal/core/domain"
	"github.com/gharfindr/rental-api/internal/core/ports"
	"github.com/gharfindr/rental-api/internal/infrastructure/storage"
)

// AuthHandler exposes the account-security flows over HTTP.
type AuthHandler struct {
	accounts ports.AccountService
	images   *storage.DiskStore
}

func NewAuthHandler(accounts ports.AccountService, images *storage.DiskStore) *AuthHandler {
	return &AuthHandler{accounts: accounts, images: images}
}

// Register creates a new unverified account.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account registration details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.accounts.Register(c.Request().Context(), ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, registerResponse{
		Success:             true,
		AccountID:           result.AccountID,
		PendingVerification: result.PendingVerification,
		Message:             "registered successfully, please check your inbox for the verification code",
	})
}

// VerifyEmail confirms email ownership with the mailed code.
//
// @Summary      Verify email with the mailed code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      verifyEmailRequest  true  "Email and verification code"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Router       /auth/verify-email [post]
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	var req verifyEmailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	err := h.accounts.VerifyEmail(c.Request().Context(), req.Email, req.VerificationCode)
	switch {
	case err == nil:
		metrics.VerificationsTotal.WithLabelValues("verified").Inc()
	case errors.Is(err, domain.ErrCodeMismatch):
		metrics.VerificationsTotal.WithLabelValues("mismatch").Inc()
	case errors.Is(err, domain.ErrCodeExpired):
		metrics.VerificationsTotal.WithLabelValues("expired").Inc()
	case errors.Is(err, domain.ErrAlreadyVerified):
		metrics.VerificationsTotal.WithLabelValues("already_verified").Inc()
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "email verified"})
}

// ResendVerification replaces the pending code and re-sends it.
//
// @Summary      Resend the verification code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      resendVerificationRequest  true  "Account email"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Router       /auth/resend-verification [post]
func (h *AuthHandler) ResendVerification(c echo.Context) error {
	var req resendVerificationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.accounts.ResendVerification(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "verification code resent"})
}

// Login authenticates an account and returns a bearer token plus the
// server-side session id.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      423   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.accounts.Login(c.Request().Context(), ports.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		IP:       c.RealIP(),
	})
	if err != nil {
		var locked *domain.LockedError
		switch {
		case errors.As(err, &locked):
			metrics.LoginAttemptsTotal.WithLabelValues("locked").Inc()
			if locked.Triggered {
				metrics.AccountLockoutsTotal.Inc()
			}
		case errors.Is(err, domain.ErrInvalidCredentials):
			metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		case errors.Is(err, domain.ErrNotVerified):
			metrics.LoginAttemptsTotal.WithLabelValues("not_verified").Inc()
		case errors.Is(err, domain.ErrAccountNotFound):
			metrics.LoginAttemptsTotal.WithLabelValues("not_found").Inc()
		}
		return err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, loginResponse{
		Success:   true,
		Token:     result.Token,
		SessionID: result.SessionID,
		Role:      string(result.Role),
		Name:      result.Name,
		AccountID: result.AccountID,
	})
}

// Logout deletes the server-side session.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  map[string]string
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	sessionID, _ := c.Get("session_id").(string)

	if err := h.accounts.Logout(c.Request().Context(), actor.AccountID, sessionID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "logged out"})
}

// UploadProfileImage stores the caller's profile picture and records the path
// on the account.
//
// @Summary      Upload a profile image
// @Tags         auth
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        profileImage  formData  file  true  "Profile image"
// @Success      200  {object}  uploadImageResponse
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /auth/profile-image [post]
func (h *AuthHandler) UploadProfileImage(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	file, err := c.FormFile("profileImage")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "profileImage file is required")
	}
	path, err := h.images.Save(file)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not store image")
	}

	if err := h.accounts.UpdateProfileImage(c.Request().Context(), actor.AccountID, path); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, uploadImageResponse{Success: true, ImagePath: path})
}

// ForgotPassword issues a reset token and mails the reset link.
//
// @Summary      Request a password reset
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      forgotPasswordRequest  true  "Account email"
// @Success      200   {object}  messageResponse
// @Failure      404   {object}  map[string]string
// @Router       /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.accounts.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return err
	}
	metrics.PasswordResetsTotal.WithLabelValues("requested").Inc()
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "please check your inbox to reset your password"})
}

// ResetPassword consumes the reset token and sets the new password.
//
// @Summary      Reset the password with a token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      resetPasswordRequest  true  "Reset token and new password"
// @Success      200   {object}  messageResponse
// @Failure      404   {object}  map[string]string
// @Router       /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.accounts.ResetPassword(c.Request().Context(), req.Token, req.NewPassword); err != nil {
		return err
	}
	metrics.PasswordResetsTotal.WithLabelValues("completed").Inc()
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "password reset successfully"})
}
