package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/gharfindr/rental-api/internal/core/domain"
	"github.com/gharfindr/rental-api/internal/core/ports"
)

type stubRoomRepo struct {
	byID   map[string]*domain.RoomListing
	nextID int
}

func newStubRoomRepo() *stubRoomRepo {
	return &stubRoomRepo{byID: make(map[string]*domain.RoomListing)}
}

func cloneRoom(r *domain.RoomListing) *domain.RoomListing {
	if r == nil {
		return nil
	}
	clone := *r
	return &clone
}

func (r *stubRoomRepo) Create(_ context.Context, room *domain.RoomListing) (*domain.RoomListing, error) {
	r.nextID++
	copy := cloneRoom(room)
	copy.ID = fmt.Sprintf("room_%d", r.nextID)
	r.byID[copy.ID] = cloneRoom(copy)
	return cloneRoom(copy), nil
}

func (r *stubRoomRepo) FindByID(_ context.Context, id string) (*domain.RoomListing, error) {
	room, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	return cloneRoom(room), nil
}

func (r *stubRoomRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.RoomListing, error) {
	result := make([]*domain.RoomListing, 0, len(ids))
	for _, id := range ids {
		if room, ok := r.byID[id]; ok {
			result = append(result, cloneRoom(room))
		}
	}
	return result, nil
}

func (r *stubRoomRepo) List(_ context.Context, filter ports.ListingFilter) ([]*domain.RoomListing, error) {
	var result []*domain.RoomListing
	for _, room := range r.byID {
		if filter.OwnerID == "" || room.OwnerID == filter.OwnerID {
			result = append(result, cloneRoom(room))
		}
	}
	return result, nil
}

func (r *stubRoomRepo) Update(_ context.Context, room *domain.RoomListing) error {
	if _, ok := r.byID[room.ID]; !ok {
		return domain.ErrListingNotFound
	}
	r.byID[room.ID] = cloneRoom(room)
	return nil
}

func (r *stubRoomRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrListingNotFound
	}
	delete(r.byID, id)
	return nil
}

func validRoomInput() ports.CreateRoomInput {
	return ports.CreateRoomInput{
		Description: "Sunny room near the campus",
		Floor:       2,
		Address:     "Baneshwor, Kathmandu",
		RentPrice:   12000,
		Parking:     "available",
		ContactNo:   "9800000000",
		Bathrooms:   1,
	}
}

func TestRoomService_Create(t *testing.T) {
	rooms := newStubRoomRepo()
	accounts := newStubAccountRepo()
	svc := NewRoomService(rooms, accounts, zerolog.Nop())

	owner, err := accounts.Create(context.Background(), &domain.Account{Name: "A", Email: "a@b.com"})
	if err != nil {
		t.Fatalf("account create failed: %v", err)
	}
	actor := ports.ActorInput{AccountID: owner.ID, Role: domain.RoleUser}

	room, err := svc.Create(context.Background(), actor, validRoomInput())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if room.ID == "" {
		t.Fatalf("expected generated id")
	}
	if room.OwnerID != owner.ID {
		t.Fatalf("expected owner %s, got %s", owner.ID, room.OwnerID)
	}
	if room.Parking != domain.ParkingAvailable {
		t.Fatalf("unexpected parking value: %s", room.Parking)
	}

	updated, err := accounts.FindByID(context.Background(), owner.ID)
	if err != nil {
		t.Fatalf("owner lookup failed: %v", err)
	}
	if updated.ActivityStats.RoomsCreated != 1 {
		t.Fatalf("expected rooms created counter 1, got %d", updated.ActivityStats.RoomsCreated)
	}
}

func TestRoomService_Create_Validation(t *testing.T) {
	svc := NewRoomService(newStubRoomRepo(), newStubAccountRepo(), zerolog.Nop())
	actor := ports.ActorInput{AccountID: "acc_1", Role: domain.RoleUser}

	missing := validRoomInput()
	missing.Description = ""
	if _, err := svc.Create(context.Background(), actor, missing); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for missing description, got %v", err)
	}

	badParking := validRoomInput()
	badParking.Parking = "garage"
	if _, err := svc.Create(context.Background(), actor, badParking); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for bad parking, got %v", err)
	}

	freeRoom := validRoomInput()
	freeRoom.RentPrice = 0
	if _, err := svc.Create(context.Background(), actor, freeRoom); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for zero rent, got %v", err)
	}
}

func TestRoomService_List_OwnerScoping(t *testing.T) {
	rooms := newStubRoomRepo()
	svc := NewRoomService(rooms, newStubAccountRepo(), zerolog.Nop())

	alice := ports.ActorInput{AccountID: "acc_alice", Role: domain.RoleUser}
	bob := ports.ActorInput{AccountID: "acc_bob", Role: domain.RoleUser}

	if _, err := svc.Create(context.Background(), alice, validRoomInput()); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.Create(context.Background(), bob, validRoomInput()); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	own, err := svc.List(context.Background(), ports.ListRoomsInput{Actor: alice})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(own) != 1 || own[0].OwnerID != alice.AccountID {
		t.Fatalf("expected only alice's room, got %d rooms", len(own))
	}

	all, err := svc.List(context.Background(), ports.ListRoomsInput{Actor: alice, ShowAll: true})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 rooms with ShowAll, got %d", len(all))
	}
}

func TestRoomService_Update_Ownership(t *testing.T) {
	rooms := newStubRoomRepo()
	svc := NewRoomService(rooms, newStubAccountRepo(), zerolog.Nop())

	owner := ports.ActorInput{AccountID: "acc_owner", Role: domain.RoleUser}
	stranger := ports.ActorInput{AccountID: "acc_other", Role: domain.RoleUser}
	admin := ports.ActorInput{AccountID: "acc_admin", Role: domain.RoleAdmin}

	room, err := svc.Create(context.Background(), owner, validRoomInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	update := ports.UpdateRoomInput{
		Description: "Updated description",
		Floor:       3,
		Address:     "New Road, Kathmandu",
		RentPrice:   15000,
		ContactNo:   "9811111111",
		Bathrooms:   2,
	}

	if _, err := svc.Update(context.Background(), stranger, room.ID, update); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-owner, got %v", err)
	}

	updated, err := svc.Update(context.Background(), owner, room.ID, update)
	if err != nil {
		t.Fatalf("owner update failed: %v", err)
	}
	if updated.RentPrice != 15000 {
		t.Fatalf("expected updated rent, got %f", updated.RentPrice)
	}
	if updated.Parking != domain.ParkingAvailable {
		t.Fatalf("empty parking must keep the stored value, got %s", updated.Parking)
	}

	if _, err := svc.Update(context.Background(), admin, room.ID, update); err != nil {
		t.Fatalf("admin update failed: %v", err)
	}
}

func TestRoomService_Delete(t *testing.T) {
	rooms := newStubRoomRepo()
	svc := NewRoomService(rooms, newStubAccountRepo(), zerolog.Nop())

	owner := ports.ActorInput{AccountID: "acc_owner", Role: domain.RoleUser}
	stranger := ports.ActorInput{AccountID: "acc_other", Role: domain.RoleUser}

	room, err := svc.Create(context.Background(), owner, validRoomInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.Delete(context.Background(), stranger, room.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(context.Background(), owner, room.ID); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	if _, err := svc.Get(context.Background(), room.ID); !errors.Is(err, domain.ErrListingNotFound) {
		t.Fatalf("expected ErrListingNotFound after delete, got %v", err)
	}
}
