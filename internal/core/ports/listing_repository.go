package ports

import (
	"context"

	"github.com/gharfindr/rental-api/internal/core/domain"
)

// ListingFilter scopes a listing query. An empty OwnerID returns every
// listing (public browsing); a non-empty OwnerID restricts to that owner.
type ListingFilter struct {
	OwnerID string
}

// RoomRepository defines persistence operations for room listings.
type RoomRepository interface {
	Create(ctx context.Context, room *domain.RoomListing) (*domain.RoomListing, error)
	FindByID(ctx context.Context, id string) (*domain.RoomListing, error)
	FindByIDs(ctx context.Context, ids []string) ([]*domain.RoomListing, error)
	List(ctx context.Context, filter ListingFilter) ([]*domain.RoomListing, error)
	Update(ctx context.Context, room *domain.RoomListing) error
	Delete(ctx context.Context, id string) error
}

// RoommateRepository defines persistence operations for roommate listings.
type RoommateRepository interface {
	Create(ctx context.Context, roommate *domain.RoommateListing) (*domain.RoommateListing, error)
	FindByID(ctx context.Context, id string) (*domain.RoommateListing, error)
	List(ctx context.Context, filter ListingFilter) ([]*domain.RoommateListing, error)
	Update(ctx context.Context, roommate *domain.RoommateListing) error
	Delete(ctx context.Context, id string) error
}
