package service

import (
	"context"
	"crypto/rand"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/gharfindr/rental-api/internal/core/domain"
	"github.com/gharfindr/rental-api/internal/core/ports"
)

// SecurityPolicy holds the tunable account-security values. Defaults mirror
// the production configuration but every value is operator-adjustable.
type SecurityPolicy struct {
	MaxFailedAttempts int64
	LockDuration      time.Duration
	CodeTTL           time.Duration
	ResetTokenTTL     time.Duration
	TokenTTL          time.Duration
}

// DefaultSecurityPolicy returns the stock policy: 5 attempts, 20 second lock,
// 10 minute verification codes, 15 minute reset tokens, 1 hour bearer tokens.
func DefaultSecurityPolicy() SecurityPolicy {
	return SecurityPolicy{
		MaxFailedAttempts: 5,
		LockDuration:      20 * time.Second,
		CodeTTL:           10 * time.Minute,
		ResetTokenTTL:     15 * time.Minute,
		TokenTTL:          time.Hour,
	}
}

// AccountService implements the account-security state machine: registration
// with email verification, login with lazy lockout, password reset, and
// statistics. All time comparisons go through the injected clock.
type AccountService struct {
	repo      ports.AccountRepository
	sessions  ports.SessionStore
	mailer    ports.Mailer
	policy    SecurityPolicy
	jwtSecret string
	logger    zerolog.Logger
	now       func() time.Time
}

func NewAccountService(
	repo ports.AccountRepository,
	sessions ports.SessionStore,
	mailer ports.Mailer,
	policy SecurityPolicy,
	jwtSecret string,
	logger zerolog.Logger,
) *AccountService {
	def := DefaultSecurityPolicy()
	if policy.MaxFailedAttempts <= 0 {
		policy.MaxFailedAttempts = def.MaxFailedAttempts
	}
	if policy.LockDuration <= 0 {
		policy.LockDuration = def.LockDuration
	}
	if policy.CodeTTL <= 0 {
		policy.CodeTTL = def.CodeTTL
	}
	if policy.ResetTokenTTL <= 0 {
		policy.ResetTokenTTL = def.ResetTokenTTL
	}
	if policy.TokenTTL <= 0 {
		policy.TokenTTL = def.TokenTTL
	}
	return &AccountService{
		repo:      repo,
		sessions:  sessions,
		mailer:    mailer,
		policy:    policy,
		jwtSecret: jwtSecret,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock replaces the service clock. Intended for tests.
func (s *AccountService) WithClock(now func() time.Time) *AccountService {
	s.now = now
	return s
}

// Register creates an unverified account and dispatches the verification code.
func (s *AccountService) Register(ctx context.Context, input ports.RegisterInput) (*ports.RegisterResult, error) {
	name := strings.TrimSpace(input.Name)
	email := normalizeEmail(input.Email)
	if name == "" || email == "" || input.Password == "" {
		return nil, domain.ErrValidation
	}

	role := domain.Role(input.Role)
	if input.Role == "" {
		role = domain.RoleUser
	}
	if !role.Valid() {
		return nil, domain.ErrValidation
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailExists
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	code, err := generateVerificationCode(6)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	expires := now.Add(s.policy.CodeTTL)
	account := &domain.Account{
		Name:             name,
		Email:            email,
		PasswordHash:     string(hash),
		Role:             role,
		IsVerified:       false,
		VerificationCode: code,
		CodeExpiresAt:    &expires,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	created, err := s.repo.Create(ctx, account)
	if err != nil {
		return nil, err
	}

	if err := s.mailer.SendVerificationCode(ctx, email, name, code); err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("failed to send verification mail")
	}

	s.logger.Info().Str("account_id", created.ID).Msg("account registered, verification pending")
	return &ports.RegisterResult{AccountID: created.ID, PendingVerification: true}, nil
}

// VerifyEmail checks the submitted code against the stored one. The code is
// single use: a successful verification clears both code fields.
func (s *AccountService) VerifyEmail(ctx context.Context, email, code string) error {
	account, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}
	if account.IsVerified {
		return domain.ErrAlreadyVerified
	}
	if account.VerificationCode == "" || account.VerificationCode != code {
		return domain.ErrCodeMismatch
	}
	if account.CodeExpired(s.now().UTC()) {
		return domain.ErrCodeExpired
	}

	account.IsVerified = true
	account.VerificationCode = ""
	account.CodeExpiresAt = nil
	if err := s.repo.Update(ctx, account); err != nil {
		return err
	}

	s.logger.Info().Str("account_id", account.ID).Msg("email verified")
	return nil
}

// ResendVerification replaces the stored code and expiry, invalidating the
// previous code, and re-sends the notification. Allowed only while unverified.
func (s *AccountService) ResendVerification(ctx context.Context, email string) error {
	account, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}
	if account.IsVerified {
		return domain.ErrAlreadyVerified
	}

	code, err := generateVerificationCode(6)
	if err != nil {
		return err
	}
	expires := s.now().UTC().Add(s.policy.CodeTTL)
	account.VerificationCode = code
	account.CodeExpiresAt = &expires
	if err := s.repo.Update(ctx, account); err != nil {
		return err
	}

	if err := s.mailer.SendVerificationCode(ctx, account.Email, account.Name, code); err != nil {
		s.logger.Error().Err(err).Str("email", account.Email).Msg("failed to resend verification mail")
		return err
	}
	return nil
}

// Login drives the per-account state machine:
//
//	unverified          → refused regardless of password
//	locked (lazy check) → refused without consulting the password
//	mismatch            → atomic failure count; lock at the policy threshold
//	match               → counters reset, session regenerated, token issued
func (s *AccountService) Login(ctx context.Context, input ports.LoginInput) (*ports.LoginResult, error) {
	email := normalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, domain.ErrValidation
	}

	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if account.IsLocked(now) {
		return nil, &domain.LockedError{Until: *account.LockUntil}
	}
	if !account.IsVerified {
		return nil, domain.ErrNotVerified
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(input.Password)) != nil {
		attempts, ferr := s.repo.RegisterFailure(ctx, account.ID, input.IP, now)
		if ferr != nil {
			return nil, ferr
		}
		if attempts >= s.policy.MaxFailedAttempts {
			until := now.Add(s.policy.LockDuration)
			locked, lerr := s.repo.Lock(ctx, account.ID, until, s.policy.MaxFailedAttempts, now)
			if lerr != nil {
				return nil, lerr
			}
			if locked {
				s.logger.Warn().
					Str("account_id", account.ID).
					Int64("attempts", attempts).
					Time("lock_until", until).
					Msg("account locked after repeated failures")
			}
			return nil, &domain.LockedError{Until: until, Triggered: locked}
		}
		return nil, domain.ErrInvalidCredentials
	}

	account.RecordSuccessfulLogin(input.IP, now)
	if err := s.repo.Update(ctx, account); err != nil {
		return nil, err
	}

	// Fresh session id on every login; any prior id is never reused.
	sessionID, err := s.sessions.Create(ctx, account.ID)
	if err != nil {
		s.logger.Error().Err(err).Str("account_id", account.ID).Msg("session create failed")
		return nil, err
	}

	token, err := s.signToken(account)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("account_id", account.ID).Str("ip", input.IP).Msg("login succeeded")
	return &ports.LoginResult{
		Token:     token,
		SessionID: sessionID,
		AccountID: account.ID,
		Name:      account.Name,
		Role:      account.Role,
	}, nil
}

// Logout deletes the server-side session and decrements the active gauge.
func (s *AccountService) Logout(ctx context.Context, accountID, sessionID string) error {
	if sessionID != "" {
		if err := s.sessions.Delete(ctx, sessionID); err != nil {
			s.logger.Warn().Err(err).Str("account_id", accountID).Msg("session delete failed")
		}
	}
	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		return err
	}
	account.RecordLogout()
	return s.repo.Update(ctx, account)
}

// ForgotPassword issues an opaque reset token with an explicit TTL and
// dispatches the reset mail. Unknown emails surface as not-found.
func (s *AccountService) ForgotPassword(ctx context.Context, email string) error {
	account, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}

	now := s.now().UTC()
	expires := now.Add(s.policy.ResetTokenTTL)
	account.ResetToken = uuid.NewString()
	account.ResetTokenExpiresAt = &expires
	account.RecordResetRequest(now)
	if err := s.repo.Update(ctx, account); err != nil {
		return err
	}

	if err := s.mailer.SendPasswordReset(ctx, account.Email, account.Name, account.ResetToken); err != nil {
		s.logger.Error().Err(err).Str("email", account.Email).Msg("failed to send reset mail")
		return err
	}
	return nil
}

// ResetPassword consumes a reset token: the token must map to exactly one
// account and be unexpired. The token is cleared on success and cannot be
// reused.
func (s *AccountService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" || newPassword == "" {
		return domain.ErrValidation
	}

	account, err := s.repo.FindByResetToken(ctx, token)
	if err != nil {
		return err
	}
	if account.ResetTokenExpired(s.now().UTC()) {
		return domain.ErrInvalidResetToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	account.PasswordHash = string(hash)
	account.ResetToken = ""
	account.ResetTokenExpiresAt = nil
	account.RecordPasswordChange(s.now().UTC())
	if err := s.repo.Update(ctx, account); err != nil {
		return err
	}

	s.logger.Info().Str("account_id", account.ID).Msg("password reset completed")
	return nil
}

// UpdateProfileImage replaces the stored profile image path and counts the
// profile update.
func (s *AccountService) UpdateProfileImage(ctx context.Context, accountID, imagePath string) error {
	if imagePath == "" {
		return domain.ErrValidation
	}
	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		return err
	}
	account.ImagePath = imagePath
	account.RecordProfileUpdate(s.now().UTC())
	return s.repo.Update(ctx, account)
}

// Unlock is the operator action: it clears the lock regardless of remaining
// duration and accumulates the total lock time statistic.
func (s *AccountService) Unlock(ctx context.Context, accountID string) error {
	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		return err
	}
	account.RecordUnlock(s.now().UTC())
	if err := s.repo.Update(ctx, account); err != nil {
		return err
	}
	s.logger.Info().Str("account_id", accountID).Msg("account unlocked by operator")
	return nil
}

// Stats returns the aggregate counters for an account.
func (s *AccountService) Stats(ctx context.Context, accountID string) (*ports.AccountStats, error) {
	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return &ports.AccountStats{
		AccountID:     account.ID,
		Email:         account.Email,
		LoginStats:    account.LoginStats,
		SecurityStats: account.SecurityStats,
		SessionStats:  account.SessionStats,
		ActivityStats: account.ActivityStats,
	}, nil
}

func (s *AccountService) signToken(account *domain.Account) (string, error) {
	claims := jwt.MapClaims{
		"id":    account.ID,
		"email": account.Email,
		"role":  string(account.Role),
		"exp":   s.now().Add(s.policy.TokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

const codeCharset = "0123456789"

// generateVerificationCode returns a random numeric code of the given length.
func generateVerificationCode(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i := range buf {
		buf[i] = codeCharset[int(buf[i])%len(codeCharset)]
	}
	return string(buf), nil
}
