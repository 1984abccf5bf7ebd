package ports

import (
	"context"

	"github.com/gharfindr/rental-api/internal/core/domain"
)

// ActorInput identifies the authenticated caller of a write operation.
type ActorInput struct {
	AccountID string
	Role      domain.Role
}

// CreateRoomInput carries all data needed to create a room listing.
type CreateRoomInput struct {
	Description string
	Floor       int
	Address     string
	RentPrice   float64
	Parking     string
	ContactNo   string
	Bathrooms   int
	ImagePath   string // optional, already stored on disk by the handler
}

// UpdateRoomInput mirrors CreateRoomInput for updates. An empty ImagePath
// leaves the stored image untouched.
type UpdateRoomInput struct {
	Description string
	Floor       int
	Address     string
	RentPrice   float64
	Parking     string
	ContactNo   string
	Bathrooms   int
	ImagePath   string
}

// ListRoomsInput controls owner scoping: ShowAll bypasses it for public browsing.
type ListRoomsInput struct {
	Actor   ActorInput
	ShowAll bool
}

// RoomService defines use-case operations for room listings.
type RoomService interface {
	Create(ctx context.Context, actor ActorInput, input CreateRoomInput) (*domain.RoomListing, error)
	Get(ctx context.Context, id string) (*domain.RoomListing, error)
	List(ctx context.Context, input ListRoomsInput) ([]*domain.RoomListing, error)
	Update(ctx context.Context, actor ActorInput, id string, input UpdateRoomInput) (*domain.RoomListing, error)
	Delete(ctx context.Context, actor ActorInput, id string) error
}

// CreateRoommateInput carries all data needed to create a roommate listing.
type CreateRoommateInput struct {
	Name              string
	Age               int
	Gender            string
	Occupation        string
	Bio               string
	Budget            float64
	PreferredLocation string
	ContactNo         string
	ImagePath         string
}

// ListRoommatesInput controls owner scoping for roommate listings.
type ListRoommatesInput struct {
	Actor   ActorInput
	ShowAll bool
}

// RoommateService defines use-case operations for roommate listings.
type RoommateService interface {
	Create(ctx context.Context, actor ActorInput, input CreateRoommateInput) (*domain.RoommateListing, error)
	Get(ctx context.Context, id string) (*domain.RoommateListing, error)
	List(ctx context.Context, input ListRoommatesInput) ([]*domain.RoommateListing, error)
	Update(ctx context.Context, actor ActorInput, id string, input CreateRoommateInput) (*domain.RoommateListing, error)
	Delete(ctx context.Context, actor ActorInput, id string) error
}

// WishlistService manages the room wishlist stored on the account.
type WishlistService interface {
	Add(ctx context.Context, accountID, roomID string) error
	Remove(ctx context.Context, accountID, roomID string) error
	List(ctx context.Context, accountID string) ([]*domain.RoomListing, error)
}
