package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/middlemost/wishlist"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Ensure backend implements interface.
var _ wishlist.EntryBackend = &EntryBackend{}

// EntryBackend stores wishlist entries in the wishlistitems collection.
type EntryBackend struct {
	db *DB
}

// NewEntryBackend returns a new instance of EntryBackend.
func NewEntryBackend(db *DB) *EntryBackend {
	return &EntryBackend{db: db}
}

// Available returns true while the server is reachable.
func (b *EntryBackend) Available() bool { return b.db.Available() }

type entryDocument struct {
	ID         string    `bson:"_id"`
	Phone      string    `bson:"phone"`
	MerchantID string    `bson:"merchantId"`
	ProductID  string    `bson:"productId"`
	AddedAt    time.Time `bson:"addedAt"`
}

func (doc *entryDocument) entry() *wishlist.Entry {
	return &wishlist.Entry{
		ID:         doc.ID,
		Phone:      doc.Phone,
		MerchantID: doc.MerchantID,
		ProductID:  doc.ProductID,
		AddedAt:    doc.AddedAt.UTC(),
	}
}

// FindEntry returns the entry for a phone, merchant & product, if any.
func (b *EntryBackend) FindEntry(ctx context.Context, phone, merchantID, productID string) (*wishlist.Entry, error) {
	return b.findOne(ctx, bson.D{
		{Key: "phone", Value: phone},
		{Key: "merchantId", Value: merchantID},
		{Key: "productId", Value: productID},
	})
}

// FindEntryByID returns the entry by id, if any.
func (b *EntryBackend) FindEntryByID(ctx context.Context, id string) (*wishlist.Entry, error) {
	return b.findOne(ctx, bson.D{{Key: "_id", Value: id}})
}

func (b *EntryBackend) findOne(ctx context.Context, filter bson.D) (*wishlist.Entry, error) {
	coll, err := b.db.collection(wishlistItemsCollection)
	if err != nil {
		return nil, err
	}

	var doc entryDocument
	if err := coll.FindOne(ctx, filter).Decode(&doc); errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return doc.entry(), nil
}

// FindEntries returns entries matching filter, newest first.
func (b *EntryBackend) FindEntries(ctx context.Context, filter wishlist.EntryFilter) ([]*wishlist.Entry, error) {
	coll, err := b.db.collection(wishlistItemsCollection)
	if err != nil {
		return nil, err
	}

	q := bson.D{{Key: "phone", Value: filter.Phone}}
	if filter.MerchantID != "" {
		q = append(q, bson.E{Key: "merchantId", Value: filter.MerchantID})
	}

	cur, err := coll.Find(ctx, q, options.Find().SetSort(bson.D{{Key: "addedAt", Value: -1}, {Key: "_id", Value: -1}}))
	if err != nil {
		return nil, err
	}

	var docs []entryDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	a := make([]*wishlist.Entry, 0, len(docs))
	for i := range docs {
		a = append(a, docs[i].entry())
	}
	return a, nil
}

// CreateEntry inserts an entry. The unique index on phone, merchant and
// product rejects duplicates.
func (b *EntryBackend) CreateEntry(ctx context.Context, entry *wishlist.Entry) error {
	if entry == nil {
		return wishlist.ErrEntryRequired
	} else if entry.ID == "" {
		return wishlist.ErrEntryIDRequired
	}

	coll, err := b.db.collection(wishlistItemsCollection)
	if err != nil {
		return err
	}

	if _, err := coll.InsertOne(ctx, &entryDocument{
		ID:         entry.ID,
		Phone:      entry.Phone,
		MerchantID: entry.MerchantID,
		ProductID:  entry.ProductID,
		AddedAt:    entry.AddedAt,
	}); mongo.IsDuplicateKeyError(err) {
		return wishlist.ErrEntryExists
	} else if err != nil {
		return err
	}
	return nil
}

// DeleteEntry removes an entry by id.
func (b *EntryBackend) DeleteEntry(ctx context.Context, id string) error {
	coll, err := b.db.collection(wishlistItemsCollection)
	if err != nil {
		return err
	}

	res, err := coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return err
	} else if res.DeletedCount == 0 {
		return wishlist.ErrEntryNotFound
	}
	return nil
}

// FindPhonesByProductID returns the distinct phones with productID on their wishlist.
func (b *EntryBackend) FindPhonesByProductID(ctx context.Context, productID string) ([]string, error) {
	coll, err := b.db.collection(wishlistItemsCollection)
	if err != nil {
		return nil, err
	}

	values, err := coll.Distinct(ctx, "phone", bson.D{{Key: "productId", Value: productID}})
	if err != nil {
		return nil, err
	}

	phones := make([]string, 0, len(values))
	for _, v := range values {
		if phone, ok := v.(string); ok {
			phones = append(phones, phone)
		}
	}
	return phones, nil
}
