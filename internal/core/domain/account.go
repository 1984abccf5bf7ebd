package domain

import (
	"errors"
	"fmt"
	"time"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotVerified        = errors.New("email not verified")
	ErrAlreadyVerified    = errors.New("email already verified")
	ErrCodeMismatch       = errors.New("verification code does not match")
	ErrCodeExpired        = errors.New("verification code expired")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
	ErrForbidden          = errors.New("access forbidden")
	ErrValidation         = errors.New("invalid input")
)

// LockedError signals a refused login while the account lock is active.
// It carries the lock deadline so callers can tell the user when to retry.
// Triggered is true only on the attempt that crossed the failure threshold,
// not on later refusals while the lock holds.
type LockedError struct {
	Until     time.Time
	Triggered bool
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("account locked until %s", e.Until.UTC().Format(time.RFC3339))
}

// RetryIn returns the remaining lock duration relative to now, floored at zero.
func (e *LockedError) RetryIn(now time.Time) time.Duration {
	if d := e.Until.Sub(now); d > 0 {
		return d
	}
	return 0
}

// LoginStats aggregates per-account login counters. Mutated only through the
// record methods on Account so every counter moves together.
type LoginStats struct {
	TotalLogins           int64      `json:"total_logins" bson:"total_logins"`
	TotalSuccessfulLogins int64      `json:"total_successful_logins" bson:"total_successful_logins"`
	TotalFailedLogins     int64      `json:"total_failed_logins" bson:"total_failed_logins"`
	LastLoginAt           *time.Time `json:"last_login_at,omitempty" bson:"last_login_at,omitempty"`
	LastFailedLoginAt     *time.Time `json:"last_failed_login_at,omitempty" bson:"last_failed_login_at,omitempty"`
	LastLoginIP           string     `json:"last_login_ip,omitempty" bson:"last_login_ip,omitempty"`
	LastFailedLoginIP     string     `json:"last_failed_login_ip,omitempty" bson:"last_failed_login_ip,omitempty"`
	ConsecutiveFailures   int64      `json:"consecutive_failures" bson:"consecutive_failures"`
	LockCount             int64      `json:"lock_count" bson:"lock_count"`
	LastLockedAt          *time.Time `json:"last_locked_at,omitempty" bson:"last_locked_at,omitempty"`
	TotalLockTime         int64      `json:"total_lock_time_ms" bson:"total_lock_time_ms"` // milliseconds
}

// SecurityStats tracks security-relevant account events.
type SecurityStats struct {
	PasswordChanges       int64      `json:"password_changes" bson:"password_changes"`
	LastPasswordChangeAt  *time.Time `json:"last_password_change_at,omitempty" bson:"last_password_change_at,omitempty"`
	PasswordResetRequests int64      `json:"password_reset_requests" bson:"password_reset_requests"`
	LastResetRequestAt    *time.Time `json:"last_reset_request_at,omitempty" bson:"last_reset_request_at,omitempty"`
}

// SessionStats tracks server-side session activity.
type SessionStats struct {
	TotalSessions  int64      `json:"total_sessions" bson:"total_sessions"`
	ActiveSessions int64      `json:"active_sessions" bson:"active_sessions"`
	LastSessionAt  *time.Time `json:"last_session_at,omitempty" bson:"last_session_at,omitempty"`
}

// ActivityStats counts marketplace activity attributed to the account.
type ActivityStats struct {
	ProfileUpdates   int64      `json:"profile_updates" bson:"profile_updates"`
	RoomsCreated     int64      `json:"rooms_created" bson:"rooms_created"`
	RoommatesCreated int64      `json:"roommates_created" bson:"roommates_created"`
	PaymentsMade     int64      `json:"payments_made" bson:"payments_made"`
	TotalAmountSpent float64    `json:"total_amount_spent" bson:"total_amount_spent"`
	LastActivityAt   *time.Time `json:"last_activity_at,omitempty" bson:"last_activity_at,omitempty"`
}

// Account is the aggregate root for identity, verification, lockout and
// statistics. The password field always holds a bcrypt hash, never plaintext.
type Account struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
	ImagePath    string `json:"image,omitempty"`

	IsVerified       bool       `json:"is_verified"`
	VerificationCode string     `json:"-"`
	CodeExpiresAt    *time.Time `json:"-"`

	FailedLoginAttempts int64      `json:"-"`
	LockUntil           *time.Time `json:"-"`

	ResetToken          string     `json:"-"`
	ResetTokenExpiresAt *time.Time `json:"-"`

	Wishlist []string `json:"wishlist,omitempty"`

	LoginStats    LoginStats    `json:"login_stats"`
	SecurityStats SecurityStats `json:"security_stats"`
	SessionStats  SessionStats  `json:"session_stats"`
	ActivityStats ActivityStats `json:"activity_stats"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsLocked reports whether the lockout window is still open at now.
// Lock expiry is evaluated lazily; there is no background timer.
func (a *Account) IsLocked(now time.Time) bool {
	return a.LockUntil != nil && a.LockUntil.After(now)
}

// CodeExpired reports whether the verification code has passed its expiry.
// A code is valid up to and including the recorded instant.
func (a *Account) CodeExpired(now time.Time) bool {
	return a.CodeExpiresAt == nil || now.After(*a.CodeExpiresAt)
}

// ResetTokenExpired reports whether the password-reset token is past its TTL.
func (a *Account) ResetTokenExpired(now time.Time) bool {
	return a.ResetTokenExpiresAt == nil || now.After(*a.ResetTokenExpiresAt)
}

// RecordSuccessfulLogin resets the failure state and advances the success
// counters. A successful login always zeroes FailedLoginAttempts.
func (a *Account) RecordSuccessfulLogin(ip string, now time.Time) {
	a.FailedLoginAttempts = 0
	a.LockUntil = nil
	a.LoginStats.TotalLogins++
	a.LoginStats.TotalSuccessfulLogins++
	a.LoginStats.ConsecutiveFailures = 0
	a.LoginStats.LastLoginAt = &now
	a.LoginStats.LastLoginIP = ip
	a.SessionStats.TotalSessions++
	a.SessionStats.ActiveSessions++
	a.SessionStats.LastSessionAt = &now
	a.ActivityStats.LastActivityAt = &now
}

// RecordFailedLogin advances the failure counters without deciding whether a
// lock should follow; the service owns that threshold.
func (a *Account) RecordFailedLogin(ip string, now time.Time) {
	a.FailedLoginAttempts++
	a.LoginStats.TotalLogins++
	a.LoginStats.TotalFailedLogins++
	a.LoginStats.ConsecutiveFailures++
	a.LoginStats.LastFailedLoginAt = &now
	a.LoginStats.LastFailedLoginIP = ip
}

// RecordLock marks the account locked until the given deadline.
func (a *Account) RecordLock(until, now time.Time) {
	a.LockUntil = &until
	a.LoginStats.LockCount++
	a.LoginStats.LastLockedAt = &now
}

// RecordUnlock clears the lock state and accumulates the elapsed lock time.
func (a *Account) RecordUnlock(now time.Time) {
	if a.LoginStats.LastLockedAt != nil {
		a.LoginStats.TotalLockTime += now.Sub(*a.LoginStats.LastLockedAt).Milliseconds()
	}
	a.FailedLoginAttempts = 0
	a.LockUntil = nil
}

// RecordPasswordChange counts a completed password change.
func (a *Account) RecordPasswordChange(now time.Time) {
	a.SecurityStats.PasswordChanges++
	a.SecurityStats.LastPasswordChangeAt = &now
	a.ActivityStats.LastActivityAt = &now
}

// RecordResetRequest counts an issued password-reset token.
func (a *Account) RecordResetRequest(now time.Time) {
	a.SecurityStats.PasswordResetRequests++
	a.SecurityStats.LastResetRequestAt = &now
}

// RecordProfileUpdate counts a profile change such as a new profile image.
func (a *Account) RecordProfileUpdate(now time.Time) {
	a.ActivityStats.ProfileUpdates++
	a.ActivityStats.LastActivityAt = &now
}

// RecordLogout decrements the active session gauge, never below zero.
func (a *Account) RecordLogout() {
	if a.SessionStats.ActiveSessions > 0 {
		a.SessionStats.ActiveSessions--
	}
}

// RecordListingCreated counts a new listing of the given kind.
func (a *Account) RecordListingCreated(kind ListingKind, now time.Time) {
	switch kind {
	case ListingRoom:
		a.ActivityStats.RoomsCreated++
	case ListingRoommate:
		a.ActivityStats.RoommatesCreated++
	}
	a.ActivityStats.LastActivityAt = &now
}

// RecordPayment counts a completed payment and its amount.
func (a *Account) RecordPayment(amount float64, now time.Time) {
	a.ActivityStats.PaymentsMade++
	a.ActivityStats.TotalAmountSpent += amount
	a.ActivityStats.LastActivityAt = &now
}
