package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/middlemost/wishlist"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Ensure backend implements interface.
var _ wishlist.UserBackend = &UserBackend{}

// UserBackend stores users in the users collection.
type UserBackend struct {
	db *DB
}

// NewUserBackend returns a new instance of UserBackend.
func NewUserBackend(db *DB) *UserBackend {
	return &UserBackend{db: db}
}

// Available returns true while the server is reachable.
func (b *UserBackend) Available() bool { return b.db.Available() }

type userDocument struct {
	ID        string    `bson:"_id"`
	Phone     string    `bson:"phone"`
	CreatedAt time.Time `bson:"createdAt"`
}

// FindUserByPhone returns a user by phone number.
func (b *UserBackend) FindUserByPhone(ctx context.Context, phone string) (*wishlist.User, error) {
	coll, err := b.db.collection(usersCollection)
	if err != nil {
		return nil, err
	}

	var doc userDocument
	if err := coll.FindOne(ctx, bson.D{{Key: "phone", Value: phone}}).Decode(&doc); errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return &wishlist.User{ID: doc.ID, Phone: doc.Phone, CreatedAt: doc.CreatedAt.UTC()}, nil
}

// CreateUser inserts a user. The unique index on phone rejects duplicates.
func (b *UserBackend) CreateUser(ctx context.Context, user *wishlist.User) error {
	if user == nil {
		return wishlist.ErrUserRequired
	} else if user.Phone == "" {
		return wishlist.ErrPhoneRequired
	} else if user.ID == "" {
		return wishlist.ErrUserRequired
	}

	coll, err := b.db.collection(usersCollection)
	if err != nil {
		return err
	}

	if _, err := coll.InsertOne(ctx, &userDocument{
		ID:        user.ID,
		Phone:     user.Phone,
		CreatedAt: user.CreatedAt,
	}); mongo.IsDuplicateKeyError(err) {
		return wishlist.ErrPhoneInUse
	} else if err != nil {
		return err
	}
	return nil
}
