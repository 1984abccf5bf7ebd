package ports

import (
	"context"

	"github.com/gharfindr/rental-api/internal/core/domain"
)

// RegisterInput carries all data needed to create a new account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string // defaults to "user" when empty
}

// RegisterResult is returned after a successful registration. The account is
// created unverified; the caller must complete the verify-email flow before
// logging in.
type RegisterResult struct {
	AccountID           string
	PendingVerification bool
}

// LoginInput carries the credentials and request metadata for a login attempt.
type LoginInput struct {
	Email    string
	Password string
	IP       string
}

// LoginResult is returned after a successful login.
type LoginResult struct {
	Token     string
	SessionID string
	AccountID string
	Name      string
	Role      domain.Role
}

// AccountStats is the statistics view exposed to admin callers.
type AccountStats struct {
	AccountID     string
	Email         string
	LoginStats    domain.LoginStats
	SecurityStats domain.SecurityStats
	SessionStats  domain.SessionStats
	ActivityStats domain.ActivityStats
}

// AccountService defines the account-security use cases: registration,
// verification, login with lockout, password reset and operator actions.
type AccountService interface {
	Register(ctx context.Context, input RegisterInput) (*RegisterResult, error)
	VerifyEmail(ctx context.Context, email, code string) error
	ResendVerification(ctx context.Context, email string) error
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	Logout(ctx context.Context, accountID, sessionID string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	UpdateProfileImage(ctx context.Context, accountID, imagePath string) error
	Unlock(ctx context.Context, accountID string) error
	Stats(ctx context.Context, accountID string) (*AccountStats, error)
}
