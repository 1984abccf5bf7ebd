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
)

const orderCollection = "payment_orders"

type OrderRepository struct {
	coll *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{coll: db.Collection(orderCollection)}
}

type mongoOrder struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	RoomID      string             `bson:"room_id"`
	AccountID   string             `bson:"account_id"`
	Amount      float64            `bson:"amount"`
	GatewayRef  string             `bson:"gateway_ref"`
	Status      string             `bson:"status"`
	CreatedAt   time.Time          `bson:"created_at"`
	CompletedAt *time.Time         `bson:"completed_at,omitempty"`
}

func (m *mongoOrder) toDomain() *domain.PaymentOrder {
	return &domain.PaymentOrder{
		ID:          m.ID.Hex(),
		RoomID:      m.RoomID,
		AccountID:   m.AccountID,
		Amount:      m.Amount,
		GatewayRef:  m.GatewayRef,
		Status:      domain.OrderStatus(m.Status),
		CreatedAt:   m.CreatedAt,
		CompletedAt: m.CompletedAt,
	}
}

func (r *OrderRepository) Create(ctx context.Context, order *domain.PaymentOrder) (*domain.PaymentOrder, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoOrder{
		RoomID:     order.RoomID,
		AccountID:  order.AccountID,
		Amount:     order.Amount,
		GatewayRef: order.GatewayRef,
		Status:     string(order.Status),
		CreatedAt:  order.CreatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	created := *order
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *OrderRepository) FindByGatewayRef(ctx context.Context, ref string) (*domain.PaymentOrder, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mo mongoOrder
	if err := r.coll.FindOne(ctx, bson.M{"gateway_ref": ref}).Decode(&mo); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return mo.toDomain(), nil
}

// MarkPaid transitions pending → paid. The status filter guards against a
// replayed callback settling the same order twice.
func (r *OrderRepository) MarkPaid(ctx context.Context, id string) error {
	return r.transition(ctx, id, domain.OrderPending, domain.OrderPaid)
}

func (r *OrderRepository) MarkFailed(ctx context.Context, id string) error {
	return r.transition(ctx, id, domain.OrderPending, domain.OrderFailed)
}

func (r *OrderRepository) transition(ctx context.Context, id string, from, to domain.OrderStatus) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrOrderNotFound
	}

	now := time.Now().UTC()
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid, "status": string(from)},
		bson.M{"$set": bson.M{"status": string(to), "completed_at": now}},
	)
	if err != nil {
		return fmt.Errorf("order transition: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrOrderNotPayable
	}
	return nil
}

// EnsureIndexes creates the gateway reference lookup index.
func (r *OrderRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "gateway_ref", Value: 1}},
	})
	return err
}
