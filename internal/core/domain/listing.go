package domain

import (
	"errors"
	"time"
)

// ListingKind distinguishes the two listing collections.
type ListingKind string

const (
	ListingRoom     ListingKind = "room"
	ListingRoommate ListingKind = "roommate"
)

var ErrListingNotFound = errors.New("listing not found")

// ParkingAvailability is the closed set of parking options on a room listing.
type ParkingAvailability string

const (
	ParkingAvailable    ParkingAvailability = "available"
	ParkingNotAvailable ParkingAvailability = "not available"
)

// Gender is the closed set accepted on roommate listings.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// RoomListing is a room offered for rent. Every listing references exactly
// one owning account.
type RoomListing struct {
	ID          string              `json:"id"`
	Description string              `json:"description"`
	Floor       int                 `json:"floor"`
	Address     string              `json:"address"`
	RentPrice   float64             `json:"rent_price"`
	Parking     ParkingAvailability `json:"parking"`
	ContactNo   string              `json:"contact_no"`
	Bathrooms   int                 `json:"bathrooms"`
	ImagePath   string              `json:"image,omitempty"`
	OwnerID     string              `json:"owner_id"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// RoommateListing is a person looking for a room to share.
type RoommateListing struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Age               int       `json:"age"`
	Gender            Gender    `json:"gender"`
	Occupation        string    `json:"occupation,omitempty"`
	Bio               string    `json:"bio,omitempty"`
	Budget            float64   `json:"budget"`
	PreferredLocation string    `json:"preferred_location"`
	ContactNo         string    `json:"contact_no"`
	ImagePath         string    `json:"image,omitempty"`
	OwnerID           string    `json:"owner_id"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// CanModify reports whether the given actor may update or delete a listing
// owned by ownerID. Admins may modify any listing.
func CanModify(role Role, actorID, ownerID string) bool {
	return role == RoleAdmin || actorID == ownerID
}
