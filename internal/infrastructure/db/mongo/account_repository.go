package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gharfindr/rental-api/internal/core/domain"
)

const accountCollection = "accounts"

type AccountRepository struct {
	coll *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{coll: db.Collection(accountCollection)}
}

type mongoAccount struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password_hash"`
	Role         string             `bson:"role"`
	ImagePath    string             `bson:"image_path,omitempty"`

	IsVerified       bool       `bson:"is_verified"`
	VerificationCode string     `bson:"verification_code,omitempty"`
	CodeExpiresAt    *time.Time `bson:"code_expires_at,omitempty"`

	FailedLoginAttempts int64      `bson:"failed_login_attempts"`
	LockUntil           *time.Time `bson:"lock_until,omitempty"`

	ResetToken          string     `bson:"reset_token,omitempty"`
	ResetTokenExpiresAt *time.Time `bson:"reset_token_expires_at,omitempty"`

	Wishlist []string `bson:"wishlist,omitempty"`

	LoginStats    domain.LoginStats    `bson:"login_stats"`
	SecurityStats domain.SecurityStats `bson:"security_stats"`
	SessionStats  domain.SessionStats  `bson:"session_stats"`
	ActivityStats domain.ActivityStats `bson:"activity_stats"`

	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func toMongoAccount(a *domain.Account) *mongoAccount {
	return &mongoAccount{
		Name:                a.Name,
		Email:               a.Email,
		PasswordHash:        a.PasswordHash,
		Role:                string(a.Role),
		ImagePath:           a.ImagePath,
		IsVerified:          a.IsVerified,
		VerificationCode:    a.VerificationCode,
		CodeExpiresAt:       a.CodeExpiresAt,
		FailedLoginAttempts: a.FailedLoginAttempts,
		LockUntil:           a.LockUntil,
		ResetToken:          a.ResetToken,
		ResetTokenExpiresAt: a.ResetTokenExpiresAt,
		Wishlist:            a.Wishlist,
		LoginStats:          a.LoginStats,
		SecurityStats:       a.SecurityStats,
		SessionStats:        a.SessionStats,
		ActivityStats:       a.ActivityStats,
		CreatedAt:           a.CreatedAt,
		UpdatedAt:           a.UpdatedAt,
	}
}

func (m *mongoAccount) toDomain() *domain.Account {
	return &domain.Account{
		ID:                  m.ID.Hex(),
		Name:                m.Name,
		Email:               m.Email,
		PasswordHash:        m.PasswordHash,
		Role:                domain.Role(m.Role),
		ImagePath:           m.ImagePath,
		IsVerified:          m.IsVerified,
		VerificationCode:    m.VerificationCode,
		CodeExpiresAt:       m.CodeExpiresAt,
		FailedLoginAttempts: m.FailedLoginAttempts,
		LockUntil:           m.LockUntil,
		ResetToken:          m.ResetToken,
		ResetTokenExpiresAt: m.ResetTokenExpiresAt,
		Wishlist:            m.Wishlist,
		LoginStats:          m.LoginStats,
		SecurityStats:       m.SecurityStats,
		SessionStats:        m.SessionStats,
		ActivityStats:       m.ActivityStats,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, toMongoAccount(account))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmailExists
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}

	created := *account
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrAccountNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *AccountRepository) FindByResetToken(ctx context.Context, token string) (*domain.Account, error) {
	account, err := r.findOne(ctx, bson.M{"reset_token": token})
	if errors.Is(err, domain.ErrAccountNotFound) {
		return nil, domain.ErrInvalidResetToken
	}
	return account, err
}

func (r *AccountRepository) findOne(ctx context.Context, filter bson.M) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var ma mongoAccount
	if err := r.coll.FindOne(ctx, filter).Decode(&ma); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return ma.toDomain(), nil
}

func (r *AccountRepository) Update(ctx context.Context, account *domain.Account) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(account.ID)
	if err != nil {
		return domain.ErrAccountNotFound
	}

	doc := toMongoAccount(account)
	doc.UpdatedAt = time.Now().UTC()

	// Replace the mutable state wholesale; unset optionals must be cleared,
	// not merely omitted, so expired codes and consumed tokens disappear.
	update := bson.M{
		"$set": bson.M{
			"name":                   doc.Name,
			"password_hash":          doc.PasswordHash,
			"image_path":             doc.ImagePath,
			"is_verified":            doc.IsVerified,
			"verification_code":      doc.VerificationCode,
			"code_expires_at":        doc.CodeExpiresAt,
			"failed_login_attempts":  doc.FailedLoginAttempts,
			"lock_until":             doc.LockUntil,
			"reset_token":            doc.ResetToken,
			"reset_token_expires_at": doc.ResetTokenExpiresAt,
			"login_stats":            doc.LoginStats,
			"security_stats":         doc.SecurityStats,
			"session_stats":          doc.SessionStats,
			"activity_stats":         doc.ActivityStats,
			"updated_at":             doc.UpdatedAt,
		},
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// RegisterFailure increments the failure counters server-side and returns the
// post-increment attempt count. Concurrent attempts each get a distinct count.
func (r *AccountRepository) RegisterFailure(ctx context.Context, id, ip string, at time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, domain.ErrAccountNotFound
	}

	update := bson.M{
		"$inc": bson.M{
			"failed_login_attempts":            1,
			"login_stats.total_logins":         1,
			"login_stats.total_failed_logins":  1,
			"login_stats.consecutive_failures": 1,
		},
		"$set": bson.M{
			"login_stats.last_failed_login_at": at,
			"login_stats.last_failed_login_ip": ip,
			"updated_at":                       at,
		},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var ma mongoAccount
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&ma); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, domain.ErrAccountNotFound
		}
		return 0, fmt.Errorf("register failure: %w", err)
	}
	return ma.FailedLoginAttempts, nil
}

// Lock sets lockUntil only while the failure counter is still at or above the
// threshold. The filter makes racing lock attempts idempotent: the second one
// matches zero documents.
func (r *AccountRepository) Lock(ctx context.Context, id string, until time.Time, threshold int64, at time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, domain.ErrAccountNotFound
	}

	filter := bson.M{
		"_id":                   oid,
		"failed_login_attempts": bson.M{"$gte": threshold},
		"$or": []bson.M{
			{"lock_until": nil},
			{"lock_until": bson.M{"$lte": at}},
		},
	}
	update := bson.M{
		"$set": bson.M{
			"lock_until":                 until,
			"login_stats.last_locked_at": at,
			"updated_at":                 at,
		},
		"$inc": bson.M{"login_stats.lock_count": 1},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("lock account: %w", err)
	}
	return res.ModifiedCount > 0, nil
}

func (r *AccountRepository) AddToWishlist(ctx context.Context, id, roomID string) error {
	return r.wishlistOp(ctx, id, bson.M{"$addToSet": bson.M{"wishlist": roomID}})
}

func (r *AccountRepository) RemoveFromWishlist(ctx context.Context, id, roomID string) error {
	return r.wishlistOp(ctx, id, bson.M{"$pull": bson.M{"wishlist": roomID}})
}

func (r *AccountRepository) wishlistOp(ctx context.Context, id string, update bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrAccountNotFound
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("wishlist update: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// EnsureIndexes creates the unique email index and the reset-token lookup index.
func (r *AccountRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "reset_token", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
