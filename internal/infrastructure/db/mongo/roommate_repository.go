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

const roommateCollection = "roommates"

type RoommateRepository struct {
	coll *mongo.Collection
}

func NewRoommateRepository(db *mongo.Database) *RoommateRepository {
	return &RoommateRepository{coll: db.Collection(roommateCollection)}
}

type mongoRoommate struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	Name              string             `bson:"name"`
	Age               int                `bson:"age"`
	Gender            string             `bson:"gender"`
	Occupation        string             `bson:"occupation,omitempty"`
	Bio               string             `bson:"bio,omitempty"`
	Budget            float64            `bson:"budget"`
	PreferredLocation string             `bson:"preferred_location"`
	ContactNo         string             `bson:"contact_no"`
	ImagePath         string             `bson:"image_path,omitempty"`
	OwnerID           string             `bson:"owner_id"`
	CreatedAt         time.Time          `bson:"created_at"`
	UpdatedAt         time.Time          `bson:"updated_at"`
}

func (m *mongoRoommate) toDomain() *domain.RoommateListing {
	return &domain.RoommateListing{
		ID:                m.ID.Hex(),
		Name:              m.Name,
		Age:               m.Age,
		Gender:            domain.Gender(m.Gender),
		Occupation:        m.Occupation,
		Bio:               m.Bio,
		Budget:            m.Budget,
		PreferredLocation: m.PreferredLocation,
		ContactNo:         m.ContactNo,
		ImagePath:         m.ImagePath,
		OwnerID:           m.OwnerID,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func (r *RoommateRepository) Create(ctx context.Context, roommate *domain.RoommateListing) (*domain.RoommateListing, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoRoommate{
		Name:              roommate.Name,
		Age:               roommate.Age,
		Gender:            string(roommate.Gender),
		Occupation:        roommate.Occupation,
		Bio:               roommate.Bio,
		Budget:            roommate.Budget,
		PreferredLocation: roommate.PreferredLocation,
		ContactNo:         roommate.ContactNo,
		ImagePath:         roommate.ImagePath,
		OwnerID:           roommate.OwnerID,
		CreatedAt:         roommate.CreatedAt,
		UpdatedAt:         roommate.UpdatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert roommate: %w", err)
	}

	created := *roommate
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *RoommateRepository) FindByID(ctx context.Context, id string) (*domain.RoommateListing, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrListingNotFound
	}

	var mr mongoRoommate
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mr); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrListingNotFound
		}
		return nil, fmt.Errorf("find roommate: %w", err)
	}
	return mr.toDomain(), nil
}

func (r *RoommateRepository) List(ctx context.Context, filter ports.ListingFilter) ([]*domain.RoommateListing, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.OwnerID != "" {
		query["owner_id"] = filter.OwnerID
	}

	cur, err := r.coll.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list roommates: %w", err)
	}
	defer cur.Close(ctx)

	roommates := make([]*domain.RoommateListing, 0)
	for cur.Next(ctx) {
		var mr mongoRoommate
		if err := cur.Decode(&mr); err != nil {
			return nil, fmt.Errorf("decode roommate: %w", err)
		}
		roommates = append(roommates, mr.toDomain())
	}
	return roommates, cur.Err()
}

func (r *RoommateRepository) Update(ctx context.Context, roommate *domain.RoommateListing) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(roommate.ID)
	if err != nil {
		return domain.ErrListingNotFound
	}

	update := bson.M{"$set": bson.M{
		"name":               roommate.Name,
		"age":                roommate.Age,
		"gender":             string(roommate.Gender),
		"occupation":         roommate.Occupation,
		"bio":                roommate.Bio,
		"budget":             roommate.Budget,
		"preferred_location": roommate.PreferredLocation,
		"contact_no":         roommate.ContactNo,
		"image_path":         roommate.ImagePath,
		"updated_at":         roommate.UpdatedAt,
	}}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update roommate: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *RoommateRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrListingNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete roommate: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

// EnsureIndexes creates the owner index used by scoped list queries.
func (r *RoommateRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner_id", Value: 1}},
	})
	return err
}
