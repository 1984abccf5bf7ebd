package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/gharfindr/rental-api/internal/core/domain"
	"github.com/gharfindr/rental-api/internal/core/ports"
)

const roomCollection = "rooms"

type RoomRepository struct {
	coll *mongo.Collection
}

func NewRoomRepository(db *mongo.Database) *RoomRepository {
	return &RoomRepository{coll: db.Collection(roomCollection)}
}

type mongoRoom struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Description string             `bson:"description"`
	Floor       int                `bson:"floor"`
	Address     string             `bson:"address"`
	RentPrice   float64            `bson:"rent_price"`
	Parking     string             `bson:"parking"`
	ContactNo   string             `bson:"contact_no"`
	Bathrooms   int                `bson:"bathrooms"`
	ImagePath   string             `bson:"image_path,omitempty"`
	OwnerID     string             `bson:"owner_id"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (m *mongoRoom) toDomain() *domain.RoomListing {
	return &domain.RoomListing{
		ID:          m.ID.Hex(),
		Description: m.Description,
		Floor:       m.Floor,
		Address:     m.Address,
		RentPrice:   m.RentPrice,
		Parking:     domain.ParkingAvailability(m.Parking),
		ContactNo:   m.ContactNo,
		Bathrooms:   m.Bathrooms,
		ImagePath:   m.ImagePath,
		OwnerID:     m.OwnerID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func (r *RoomRepository) Create(ctx context.Context, room *domain.RoomListing) (*domain.RoomListing, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoRoom{
		Description: room.Description,
		Floor:       room.Floor,
		Address:     room.Address,
		RentPrice:   room.RentPrice,
		Parking:     string(room.Parking),
		ContactNo:   room.ContactNo,
		Bathrooms:   room.Bathrooms,
		ImagePath:   room.ImagePath,
		OwnerID:     room.OwnerID,
		CreatedAt:   room.CreatedAt,
		UpdatedAt:   room.UpdatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert room: %w", err)
	}

	created := *room
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *RoomRepository) FindByID(ctx context.Context, id string) (*domain.RoomListing, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrListingNotFound
	}

	var mr mongoRoom
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mr); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrListingNotFound
		}
		return nil, fmt.Errorf("find room: %w", err)
	}
	return mr.toDomain(), nil
}

func (r *RoomRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.RoomListing, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		oids = append(oids, oid)
	}

	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, fmt.Errorf("find rooms: %w", err)
	}
	defer cur.Close(ctx)

	return decodeRooms(ctx, cur)
}

func (r *RoomRepository) List(ctx context.Context, filter ports.ListingFilter) ([]*domain.RoomListing, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.OwnerID != "" {
		query["owner_id"] = filter.OwnerID
	}

	cur, err := r.coll.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	defer cur.Close(ctx)

	return decodeRooms(ctx, cur)
}

func decodeRooms(ctx context.Context, cur *mongo.Cursor) ([]*domain.RoomListing, error) {
	rooms := make([]*domain.RoomListing, 0)
	for cur.Next(ctx) {
		var mr mongoRoom
		if err := cur.Decode(&mr); err != nil {
			return nil, fmt.Errorf("decode room: %w", err)
		}
		rooms = append(rooms, mr.toDomain())
	}
	return rooms, cur.Err()
}

func (r *RoomRepository) Update(ctx context.Context, room *domain.RoomListing) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(room.ID)
	if err != nil {
		return domain.ErrListingNotFound
	}

	update := bson.M{"$set": bson.M{
		"description": room.Description,
		"floor":       room.Floor,
		"address":     room.Address,
		"rent_price":  room.RentPrice,
		"parking":     string(room.Parking),
		"contact_no":  room.ContactNo,
		"bathrooms":   room.Bathrooms,
		"image_path":  room.ImagePath,
		"updated_at":  room.UpdatedAt,
	}}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update room: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *RoomRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrListingNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete room: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

// EnsureIndexes creates the owner index used by scoped list queries.
func (r *RoomRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner_id", Value: 1}},
	})
	return err
}
