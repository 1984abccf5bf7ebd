package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/gharfindr/rental-api/internal/core/domain"
	"github.com/gharfindr/rental-api/internal/core/ports"
)

// RoomService implements CRUD over room listings with owner scoping.
type RoomService struct {
	repo     ports.RoomRepository
	accounts ports.AccountRepository
	logger   zerolog.Logger
	now      func() time.Time
}

func NewRoomService(repo ports.RoomRepository, accounts ports.AccountRepository, logger zerolog.Logger) *RoomService {
	return &RoomService{repo: repo, accounts: accounts, logger: logger, now: time.Now}
}

// Create persists a new room listing owned by the actor and records the
// activity counter on the owning account.
func (s *RoomService) Create(ctx context.Context, actor ports.ActorInput, input ports.CreateRoomInput) (*domain.RoomListing, error) {
	if input.Description == "" || input.Address == "" || input.ContactNo == "" || input.RentPrice <= 0 {
		return nil, domain.ErrValidation
	}
	parking := domain.ParkingAvailability(input.Parking)
	if parking != domain.ParkingAvailable && parking != domain.ParkingNotAvailable {
		return nil, domain.ErrValidation
	}

	now := s.now().UTC()
	room := &domain.RoomListing{
		Description: input.Description,
		Floor:       input.Floor,
		Address:     input.Address,
		RentPrice:   input.RentPrice,
		Parking:     parking,
		ContactNo:   input.ContactNo,
		Bathrooms:   input.Bathrooms,
		ImagePath:   input.ImagePath,
		OwnerID:     actor.AccountID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.Create(ctx, room)
	if err != nil {
		return nil, err
	}

	s.recordActivity(ctx, actor.AccountID, now)
	s.logger.Info().Str("room_id", created.ID).Str("owner_id", actor.AccountID).Msg("room listing created")
	return created, nil
}

// Get returns a single listing; detail reads are open.
func (s *RoomService) Get(ctx context.Context, id string) (*domain.RoomListing, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns the actor's own listings unless ShowAll bypasses scoping.
func (s *RoomService) List(ctx context.Context, input ports.ListRoomsInput) ([]*domain.RoomListing, error) {
	filter := ports.ListingFilter{OwnerID: input.Actor.AccountID}
	if input.ShowAll {
		filter.OwnerID = ""
	}
	return s.repo.List(ctx, filter)
}

// Update replaces the mutable fields of a listing. Only the owner or an
// admin may update; an empty ImagePath keeps the stored image.
func (s *RoomService) Update(ctx context.Context, actor ports.ActorInput, id string, input ports.UpdateRoomInput) (*domain.RoomListing, error) {
	room, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanModify(actor.Role, actor.AccountID, room.OwnerID) {
		return nil, domain.ErrForbidden
	}

	room.Description = input.Description
	room.Floor = input.Floor
	room.Address = input.Address
	room.RentPrice = input.RentPrice
	if input.Parking != "" {
		room.Parking = domain.ParkingAvailability(input.Parking)
	}
	room.ContactNo = input.ContactNo
	room.Bathrooms = input.Bathrooms
	if input.ImagePath != "" {
		room.ImagePath = input.ImagePath
	}
	room.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// Delete removes a listing, owner or admin only.
func (s *RoomService) Delete(ctx context.Context, actor ports.ActorInput, id string) error {
	room, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !domain.CanModify(actor.Role, actor.AccountID, room.OwnerID) {
		return domain.ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

func (s *RoomService) recordActivity(ctx context.Context, accountID string, now time.Time) {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		s.logger.Warn().Err(err).Str("account_id", accountID).Msg("activity counter lookup failed")
		return
	}
	account.RecordListingCreated(domain.ListingRoom, now)
	if err := s.accounts.Update(ctx, account); err != nil {
		s.logger.Warn().Err(err).Str("account_id", accountID).Msg("activity counter update failed")
	}
}
