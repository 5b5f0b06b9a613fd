package mongo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/middlemost/wishlist"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Ensure backend implements interface.
var _ wishlist.PriceBackend = &PriceBackend{}

// PriceBackend stores price observations in the pricehistories collection.
type PriceBackend struct {
	db *DB
}

// NewPriceBackend returns a new instance of PriceBackend.
func NewPriceBackend(db *DB) *PriceBackend {
	return &PriceBackend{db: db}
}

// Available returns true while the server is reachable.
func (b *PriceBackend) Available() bool { return b.db.Available() }

type priceDocument struct {
	ID        string               `bson:"_id"`
	ProductID string               `bson:"productId"`
	Price     primitive.Decimal128 `bson:"price"`
	Timestamp time.Time            `bson:"timestamp"`
}

// AppendObservation inserts an observation.
func (b *PriceBackend) AppendObservation(ctx context.Context, obs *wishlist.PriceObservation) error {
	if obs == nil {
		return wishlist.ErrPriceRequired
	} else if obs.ProductID == "" {
		return wishlist.ErrProductIDRequired
	}

	coll, err := b.db.collection(priceHistoriesCollection)
	if err != nil {
		return err
	}

	price, err := primitive.ParseDecimal128(obs.Price.String())
	if err != nil {
		return err
	}

	// Ids are time ordered and break ties between equal timestamps.
	id, err := uuid.NewV7()
	if err != nil {
		return err
	}

	_, err = coll.InsertOne(ctx, &priceDocument{
		ID:        id.String(),
		ProductID: obs.ProductID,
		Price:     price,
		Timestamp: obs.Timestamp,
	})
	return err
}

// FindObservations returns the product's history, newest first.
func (b *PriceBackend) FindObservations(ctx context.Context, productID string) ([]*wishlist.PriceObservation, error) {
	coll, err := b.db.collection(priceHistoriesCollection)
	if err != nil {
		return nil, err
	}

	cur, err := coll.Find(ctx,
		bson.D{{Key: "productId", Value: productID}},
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}

	var docs []priceDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	a := make([]*wishlist.PriceObservation, 0, len(docs))
	for _, doc := range docs {
		price, err := decimal.NewFromString(doc.Price.String())
		if err != nil {
			return nil, err
		}
		a = append(a, &wishlist.PriceObservation{
			ProductID: doc.ProductID,
			Price:     price,
			Timestamp: doc.Timestamp.UTC(),
		})
	}
	return a, nil
}
