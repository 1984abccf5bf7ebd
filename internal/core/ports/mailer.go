package ports

import "context"

// Mailer dispatches transactional mail. Implementations must not block the
// login path on relay latency beyond the request context.
type Mailer interface {
	SendVerificationCode(ctx context.Context, to, name, code string) error
	SendPasswordReset(ctx context.Context, to, name, token string) error
}
