package ports

import "context"

// SessionStore maps opaque session ids to account ids with a fixed
// inactivity TTL. Create always issues a fresh id; login flows call it after
// discarding any previous session to prevent fixation.
type SessionStore interface {
	Create(ctx context.Context, accountID string) (string, error)
	Get(ctx context.Context, sessionID string) (string, error)
	// Renew resets the inactivity window of an existing session.
	Renew(ctx context.Context, sessionID string) error
	Delete(ctx context.Context, sessionID string) error
}
