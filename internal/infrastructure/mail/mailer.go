package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"time"

	"github.com/jordan-wright/email"
)

const (
	sendTimeout     = 10 * time.Second
	poolConnections = 2
)

// Config captures the SMTP relay settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// ResetURL is the web client page the reset link points at; the token is
	// appended as a query parameter.
	ResetURL string
}

// SMTPMailer sends transactional mail through a pooled SMTP relay connection.
type SMTPMailer struct {
	cfg  Config
	pool *email.Pool
}

func NewSMTPMailer(cfg Config) (*SMTPMailer, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	var auth smtp.Auth
	if cfg.Username != "" || cfg.Password != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	pool, err := email.NewPool(addr, poolConnections, auth)
	if err != nil {
		return nil, fmt.Errorf("smtp pool: %w", err)
	}
	return &SMTPMailer{cfg: cfg, pool: pool}, nil
}

// SendVerificationCode mails the 6-digit email verification code.
func (m *SMTPMailer) SendVerificationCode(ctx context.Context, to, name, code string) error {
	e := &email.Email{
		From:    m.cfg.From,
		To:      []string{to},
		Subject: "Your Email Verification Code",
		Text:    []byte(fmt.Sprintf("Hi %s,\n\nYour verification code is: %s\nIt expires in 10 minutes.\n", name, code)),
		HTML:    []byte(fmt.Sprintf("<p>Hi %s,</p><p>Your verification code is: <b>%s</b></p><p>It expires in 10 minutes.</p>", name, code)),
	}
	return m.send(ctx, e)
}

// SendPasswordReset mails the password-reset link.
func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to, name, token string) error {
	link := fmt.Sprintf("%s?token=%s", m.cfg.ResetURL, token)
	e := &email.Email{
		From:    m.cfg.From,
		To:      []string{to},
		Subject: "Password Reset Request",
		Text:    []byte(fmt.Sprintf("Hi %s,\n\nReset your password here: %s\n", name, link)),
		HTML:    []byte(fmt.Sprintf(`<p>Hi %s,</p><p>Please click the link below to reset your password:</p><p><a href="%s">Reset Password</a></p>`, name, link)),
	}
	return m.send(ctx, e)
}

func (m *SMTPMailer) send(ctx context.Context, e *email.Email) error {
	timeout := sendTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if err := m.pool.Send(e, timeout); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// Close releases the pooled connections.
func (m *SMTPMailer) Close() {
	m.pool.Close()
}
