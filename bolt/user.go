package bolt

import (
	"context"
	"strconv"

	"github.com/gogo/protobuf/proto"
	"github.com/middlemost/wishlist"
)

// Ensure backend implements interface.
var _ wishlist.UserBackend = &UserBackend{}

// UserBackend stores users by id with an index by phone.
type UserBackend struct {
	db *DB
}

// NewUserBackend returns a new instance of UserBackend.
func NewUserBackend(db *DB) *UserBackend {
	return &UserBackend{db: db}
}

// Available returns true if the underlying database is open.
func (b *UserBackend) Available() bool { return b.db.Available() }

// FindUserByPhone returns a user by phone number.
func (b *UserBackend) FindUserByPhone(ctx context.Context, phone string) (*wishlist.User, error) {
	tx, err := b.db.Begin(ctx, false)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	id := findUserIDByPhone(ctx, tx, phone)
	if id == "" {
		return nil, nil
	}
	return findUserByID(ctx, tx, id)
}

// CreateUser creates a new user and indexes it by phone.
func (b *UserBackend) CreateUser(ctx context.Context, user *wishlist.User) error {
	tx, err := b.db.Begin(ctx, true)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := createUser(ctx, tx, user); err != nil {
		return err
	}
	return tx.Commit()
}

func findUserByID(ctx context.Context, tx *Tx, id string) (*wishlist.User, error) {
	var u wishlist.User
	if buf := tx.Bucket(usersBucket).Get([]byte(id)); buf == nil {
		return nil, nil
	} else if err := unmarshalUser(buf, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func findUserIDByPhone(ctx context.Context, tx *Tx, phone string) string {
	v := tx.Bucket(usersPhoneBucket).Get([]byte(phone))
	if v == nil {
		return ""
	}
	return string(v)
}

func createUser(ctx context.Context, tx *Tx, user *wishlist.User) error {
	if user == nil {
		return wishlist.ErrUserRequired
	} else if user.Phone == "" {
		return wishlist.ErrPhoneRequired
	} else if id := findUserIDByPhone(ctx, tx, user.Phone); id != "" {
		return wishlist.ErrPhoneInUse
	}

	// Assign an id from the bucket sequence if the caller did not.
	if user.ID == "" {
		seq, err := tx.Bucket(usersBucket).NextSequence()
		if err != nil {
			return err
		}
		user.ID = strconv.FormatUint(seq, 10)
	}

	// Update timestamps.
	if user.CreatedAt.IsZero() {
		user.CreatedAt = tx.Now.UTC()
	}

	// Marshal and insert record.
	if buf, err := marshalUser(user); err != nil {
		return err
	} else if err := tx.Bucket(usersBucket).Put([]byte(user.ID), buf); err != nil {
		return err
	}

	// Index by phone.
	if err := tx.Bucket(usersPhoneBucket).Put([]byte(user.Phone), []byte(user.ID)); err != nil {
		return err
	}
	return nil
}

func marshalUser(v *wishlist.User) ([]byte, error) {
	return proto.Marshal(&User{
		ID:        v.ID,
		Phone:     v.Phone,
		CreatedAt: encodeTime(v.CreatedAt),
	})
}

func unmarshalUser(data []byte, v *wishlist.User) error {
	var pb User
	if err := proto.Unmarshal(data, &pb); err != nil {
		return err
	}
	*v = wishlist.User{
		ID:        pb.ID,
		Phone:     pb.Phone,
		CreatedAt: decodeTime(pb.CreatedAt),
	}
	return nil
}
