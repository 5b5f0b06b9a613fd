package bolt

import (
	"context"

	"github.com/gogo/protobuf/proto"
	"github.com/middlemost/wishlist"
	"github.com/shopspring/decimal"
)

// Ensure backend implements interface.
var _ wishlist.PriceBackend = &PriceBackend{}

// PriceBackend stores price observations in a nested bucket per product.
type PriceBackend struct {
	db *DB
}

// NewPriceBackend returns a new instance of PriceBackend.
func NewPriceBackend(db *DB) *PriceBackend {
	return &PriceBackend{db: db}
}

// Available returns true if the underlying database is open.
func (b *PriceBackend) Available() bool { return b.db.Available() }

// AppendObservation appends an observation to the product's history.
func (b *PriceBackend) AppendObservation(ctx context.Context, obs *wishlist.PriceObservation) error {
	tx, err := b.db.Begin(ctx, true)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := appendObservation(ctx, tx, obs); err != nil {
		return err
	}
	return tx.Commit()
}

// FindObservations returns the product's history, newest first.
func (b *PriceBackend) FindObservations(ctx context.Context, productID string) ([]*wishlist.PriceObservation, error) {
	tx, err := b.db.Begin(ctx, false)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	return findObservations(ctx, tx, productID)
}

func appendObservation(ctx context.Context, tx *Tx, obs *wishlist.PriceObservation) error {
	if obs == nil {
		return wishlist.ErrPriceRequired
	} else if obs.ProductID == "" {
		return wishlist.ErrProductIDRequired
	}

	// Default timestamp to the transaction time.
	if obs.Timestamp.IsZero() {
		obs.Timestamp = tx.Now.UTC()
	}

	bkt, err := tx.Bucket(pricesBucket).CreateBucketIfNotExists([]byte(obs.ProductID))
	if err != nil {
		return err
	}

	// Sequence breaks ties between observations with the same timestamp.
	seq, err := bkt.NextSequence()
	if err != nil {
		return err
	}

	if buf, err := marshalObservation(obs); err != nil {
		return err
	} else if err := bkt.Put(makeObservationKey(obs.Timestamp, seq), buf); err != nil {
		return err
	}
	return nil
}

func findObservations(ctx context.Context, tx *Tx, productID string) ([]*wishlist.PriceObservation, error) {
	bkt := tx.Bucket(pricesBucket).Bucket([]byte(productID))
	if bkt == nil {
		return nil, nil
	}

	// Iterate in reverse key order to return newest first.
	var a []*wishlist.PriceObservation
	cur := bkt.Cursor()
	for k, v := cur.Last(); k != nil; k, v = cur.Prev() {
		var obs wishlist.PriceObservation
		if err := unmarshalObservation(v, &obs); err != nil {
			return nil, err
		}
		a = append(a, &obs)
	}
	return a, nil
}

func marshalObservation(v *wishlist.PriceObservation) ([]byte, error) {
	return proto.Marshal(&PriceObservation{
		ProductID: v.ProductID,
		Price:     v.Price.String(),
		Timestamp: encodeTime(v.Timestamp),
	})
}

func unmarshalObservation(data []byte, v *wishlist.PriceObservation) error {
	var pb PriceObservation
	if err := proto.Unmarshal(data, &pb); err != nil {
		return err
	}

	price, err := decimal.NewFromString(pb.Price)
	if err != nil {
		return err
	}

	*v = wishlist.PriceObservation{
		ProductID: pb.ProductID,
		Price:     price,
		Timestamp: decodeTime(pb.Timestamp),
	}
	return nil
}
