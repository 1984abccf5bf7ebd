package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/gharfindr/rental-api/internal/core/domain"
	"github.com/gharfindr/rental-api/internal/core/ports"
)

// RoommateService implements CRUD over roommate listings.
type RoommateService struct {
	repo     ports.RoommateRepository
	accounts ports.AccountRepository
	logger   zerolog.Logger
	now      func() time.Time
}

func NewRoommateService(repo ports.RoommateRepository, accounts ports.AccountRepository, logger zerolog.Logger) *RoommateService {
	return &RoommateService{repo: repo, accounts: accounts, logger: logger, now: time.Now}
}

func (s *RoommateService) Create(ctx context.Context, actor ports.ActorInput, input ports.CreateRoommateInput) (*domain.RoommateListing, error) {
	if input.Name == "" || input.PreferredLocation == "" || input.ContactNo == "" || input.Age <= 0 || input.Budget <= 0 {
		return nil, domain.ErrValidation
	}
	gender := domain.Gender(input.Gender)
	if gender != domain.GenderMale && gender != domain.GenderFemale && gender != domain.GenderOther {
		return nil, domain.ErrValidation
	}

	now := s.now().UTC()
	roommate := &domain.RoommateListing{
		Name:              input.Name,
		Age:               input.Age,
		Gender:            gender,
		Occupation:        input.Occupation,
		Bio:               input.Bio,
		Budget:            input.Budget,
		PreferredLocation: input.PreferredLocation,
		ContactNo:         input.ContactNo,
		ImagePath:         input.ImagePath,
		OwnerID:           actor.AccountID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	created, err := s.repo.Create(ctx, roommate)
	if err != nil {
		return nil, err
	}

	s.recordActivity(ctx, actor.AccountID, now)
	s.logger.Info().Str("roommate_id", created.ID).Str("owner_id", actor.AccountID).Msg("roommate listing created")
	return created, nil
}

func (s *RoommateService) Get(ctx context.Context, id string) (*domain.RoommateListing, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *RoommateService) List(ctx context.Context, input ports.ListRoommatesInput) ([]*domain.RoommateListing, error) {
	filter := ports.ListingFilter{OwnerID: input.Actor.AccountID}
	if input.ShowAll {
		filter.OwnerID = ""
	}
	return s.repo.List(ctx, filter)
}

func (s *RoommateService) Update(ctx context.Context, actor ports.ActorInput, id string, input ports.CreateRoommateInput) (*domain.RoommateListing, error) {
	roommate, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanModify(actor.Role, actor.AccountID, roommate.OwnerID) {
		return nil, domain.ErrForbidden
	}

	roommate.Name = input.Name
	roommate.Age = input.Age
	if input.Gender != "" {
		roommate.Gender = domain.Gender(input.Gender)
	}
	roommate.Occupation = input.Occupation
	roommate.Bio = input.Bio
	roommate.Budget = input.Budget
	roommate.PreferredLocation = input.PreferredLocation
	roommate.ContactNo = input.ContactNo
	if input.ImagePath != "" {
		roommate.ImagePath = input.ImagePath
	}
	roommate.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, roommate); err != nil {
		return nil, err
	}
	return roommate, nil
}

func (s *RoommateService) Delete(ctx context.Context, actor ports.ActorInput, id string) error {
	roommate, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !domain.CanModify(actor.Role, actor.AccountID, roommate.OwnerID) {
		return domain.ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

func (s *RoommateService) recordActivity(ctx context.Context, accountID string, now time.Time) {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		s.logger.Warn().Err(err).Str("account_id", accountID).Msg("activity counter lookup failed")
		return
	}
	account.RecordListingCreated(domain.ListingRoommate, now)
	if err := s.accounts.Update(ctx, account); err != nil {
		s.logger.Warn().Err(err).Str("account_id", accountID).Msg("activity counter update failed")
	}
}
