package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/gharfindr/rental-api/internal/core/domain"
	"github.com/gharfindr/rental-api/internal/core/ports"
)

// WishlistService manages the room wishlist stored on the account document.
// Membership updates are delegated to the repository's atomic set operations
// so concurrent adds and removes cannot clobber each other.
type WishlistService struct {
	accounts ports.AccountRepository
	rooms    ports.RoomRepository
	logger   zerolog.Logger
}

func NewWishlistService(accounts ports.AccountRepository, rooms ports.RoomRepository, logger zerolog.Logger) *WishlistService {
	return &WishlistService{accounts: accounts, rooms: rooms, logger: logger}
}

// Add puts a room on the wishlist. The room must exist; adding an already
// wished room is a no-op.
func (s *WishlistService) Add(ctx context.Context, accountID, roomID string) error {
	if _, err := s.rooms.FindByID(ctx, roomID); err != nil {
		return err
	}
	return s.accounts.AddToWishlist(ctx, accountID, roomID)
}

// Remove takes a room off the wishlist. Removing an absent entry is a no-op.
func (s *WishlistService) Remove(ctx context.Context, accountID, roomID string) error {
	return s.accounts.RemoveFromWishlist(ctx, accountID, roomID)
}

// List resolves the wished room ids to full listings. Rooms deleted since
// being wished are silently dropped from the result.
func (s *WishlistService) List(ctx context.Context, accountID string) ([]*domain.RoomListing, error) {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if len(account.Wishlist) == 0 {
		return []*domain.RoomListing{}, nil
	}
	return s.rooms.FindByIDs(ctx, account.Wishlist)
}
