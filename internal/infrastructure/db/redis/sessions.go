package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultSessionTTL = 30 * time.Minute

var ErrSessionNotFound = errors.New("session not found")

// SessionStore maps opaque session ids to account ids in Redis.
// Key format: session:<uuid>. Every successful Get renews the inactivity
// window (rolling expiry); login flows always call Create so the id changes
// on every authentication.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore creates a SessionStore wrapping the given Redis client.
// A default TTL is applied when none is provided.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionStore{client: client, ttl: ttl}
}

// Create issues a fresh session id bound to the account.
func (s *SessionStore) Create(ctx context.Context, accountID string) (string, error) {
	sid := uuid.NewString()
	if err := s.client.Set(ctx, s.key(sid), accountID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("session create: %w", err)
	}
	return sid, nil
}

// Get resolves a session id to its account id and renews the TTL.
func (s *SessionStore) Get(ctx context.Context, sessionID string) (string, error) {
	accountID, err := s.client.GetEx(ctx, s.key(sessionID), s.ttl).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrSessionNotFound
		}
		return "", fmt.Errorf("session get: %w", err)
	}
	return accountID, nil
}

// Renew resets the inactivity window of an existing session.
func (s *SessionStore) Renew(ctx context.Context, sessionID string) error {
	ok, err := s.client.Expire(ctx, s.key(sessionID), s.ttl).Result()
	if err != nil {
		return fmt.Errorf("session renew: %w", err)
	}
	if !ok {
		return ErrSessionNotFound
	}
	return nil
}

// Delete removes the session. Deleting an unknown id is not an error.
func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}

func (s *SessionStore) key(sessionID string) string {
	return "session:" + sessionID
}
