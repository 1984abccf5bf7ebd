package ports

import (
	"context"
	"time"

	"github.com/gharfindr/rental-api/internal/core/domain"
)

// AccountRepository defines persistence operations for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	FindByResetToken(ctx context.Context, token string) (*domain.Account, error)

	// Update persists the full mutable state of the account. Used by flows
	// that do not race (verification, reset, unlock).
	Update(ctx context.Context, account *domain.Account) error

	// RegisterFailure atomically increments the failed-attempt counters and
	// returns the post-increment attempt count. Concurrent login attempts
	// against the same account must not lose increments.
	RegisterFailure(ctx context.Context, id, ip string, at time.Time) (int64, error)

	// Lock sets lockUntil only while the attempt counter is still at or above
	// threshold, so two racing failures cannot both record a lock. Returns
	// whether this call performed the lock.
	Lock(ctx context.Context, id string, until time.Time, threshold int64, at time.Time) (bool, error)

	AddToWishlist(ctx context.Context, id, roomID string) error
	RemoveFromWishlist(ctx context.Context, id, roomID string) error
}
