package bolt

import (
	"bytes"
	"context"

	"github.com/gogo/protobuf/proto"
	"github.com/middlemost/wishlist"
)

// Ensure backend implements interface.
var _ wishlist.EntryBackend = &EntryBackend{}

// EntryBackend stores wishlist entries by id with secondary indexes by
// phone, by phone/merchant/product and by product.
type EntryBackend struct {
	db *DB
}

// NewEntryBackend returns a new instance of EntryBackend.
func NewEntryBackend(db *DB) *EntryBackend {
	return &EntryBackend{db: db}
}

// Available returns true if the underlying database is open.
func (b *EntryBackend) Available() bool { return b.db.Available() }

// FindEntry returns the entry for a phone, merchant & product, if any.
func (b *EntryBackend) FindEntry(ctx context.Context, phone, merchantID, productID string) (*wishlist.Entry, error) {
	tx, err := b.db.Begin(ctx, false)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	id := findEntryIDByKey(ctx, tx, phone, merchantID, productID)
	if id == "" {
		return nil, nil
	}
	return findEntryByID(ctx, tx, id)
}

// FindEntryByID returns the entry by id, if any.
func (b *EntryBackend) FindEntryByID(ctx context.Context, id string) (*wishlist.Entry, error) {
	tx, err := b.db.Begin(ctx, false)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	return findEntryByID(ctx, tx, id)
}

// FindEntries returns entries matching filter, newest first.
func (b *EntryBackend) FindEntries(ctx context.Context, filter wishlist.EntryFilter) ([]*wishlist.Entry, error) {
	tx, err := b.db.Begin(ctx, false)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	a := make([]*wishlist.Entry, 0)
	prefix := makeIndexPrefix(filter.Phone)
	cur := tx.Bucket(entriesPhoneBucket).Cursor()
	for k, _ := cur.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = cur.Next() {
		parts, ok := splitIndexKey(k)
		assert(ok && len(parts) == 2, "invalid phone index key: %x", k)

		entry, err := findEntryByID(ctx, tx, parts[1])
		if err != nil {
			return nil, err
		} else if entry == nil {
			continue
		} else if filter.MerchantID != "" && entry.MerchantID != filter.MerchantID {
			continue
		}
		a = append(a, entry)
	}
	wishlist.SortEntries(a)
	return a, nil
}

// CreateEntry creates a new entry and its indexes.
func (b *EntryBackend) CreateEntry(ctx context.Context, entry *wishlist.Entry) error {
	tx, err := b.db.Begin(ctx, true)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := createEntry(ctx, tx, entry); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteEntry removes an entry and its indexes.
func (b *EntryBackend) DeleteEntry(ctx context.Context, id string) error {
	tx, err := b.db.Begin(ctx, true)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := deleteEntry(ctx, tx, id); err != nil {
		return err
	}
	return tx.Commit()
}

// FindPhonesByProductID returns the distinct phones with productID on their wishlist.
func (b *EntryBackend) FindPhonesByProductID(ctx context.Context, productID string) ([]string, error) {
	tx, err := b.db.Begin(ctx, false)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	seen := make(map[string]struct{})
	var phones []string

	prefix := makeIndexPrefix(productID)
	cur := tx.Bucket(productEntriesBucket).Cursor()
	for k, _ := cur.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = cur.Next() {
		parts, ok := splitIndexKey(k)
		assert(ok && len(parts) == 3, "invalid product index key: %x", k)

		phone := parts[1]
		if _, ok := seen[phone]; ok {
			continue
		}
		seen[phone] = struct{}{}
		phones = append(phones, phone)
	}
	return phones, nil
}

func findEntryByID(ctx context.Context, tx *Tx, id string) (*wishlist.Entry, error) {
	var entry wishlist.Entry
	if buf := tx.Bucket(entriesBucket).Get([]byte(id)); buf == nil {
		return nil, nil
	} else if err := unmarshalEntry(buf, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func findEntryIDByKey(ctx context.Context, tx *Tx, phone, merchantID, productID string) string {
	v := tx.Bucket(entriesUniqueBucket).Get(makeIndexKey(phone, merchantID, productID))
	if v == nil {
		return ""
	}
	return string(v)
}

func createEntry(ctx context.Context, tx *Tx, entry *wishlist.Entry) error {
	if entry == nil {
		return wishlist.ErrEntryRequired
	} else if entry.ID == "" {
		return wishlist.ErrEntryIDRequired
	} else if entry.MerchantID == "" {
		return wishlist.ErrMerchantIDRequired
	} else if entry.ProductID == "" {
		return wishlist.ErrProductIDRequired
	} else if entry.Phone == "" {
		return wishlist.ErrPhoneRequired
	} else if id := findEntryIDByKey(ctx, tx, entry.Phone, entry.MerchantID, entry.ProductID); id != "" {
		return wishlist.ErrEntryExists
	}

	// Default timestamp to the transaction time.
	if entry.AddedAt.IsZero() {
		entry.AddedAt = tx.Now.UTC()
	}

	// Marshal and insert record.
	if buf, err := marshalEntry(entry); err != nil {
		return err
	} else if err := tx.Bucket(entriesBucket).Put([]byte(entry.ID), buf); err != nil {
		return err
	}

	// Update indexes.
	if err := tx.Bucket(entriesPhoneBucket).Put(makeIndexKey(entry.Phone, entry.ID), nil); err != nil {
		return err
	} else if err := tx.Bucket(entriesUniqueBucket).Put(makeIndexKey(entry.Phone, entry.MerchantID, entry.ProductID), []byte(entry.ID)); err != nil {
		return err
	} else if err := tx.Bucket(productEntriesBucket).Put(makeIndexKey(entry.ProductID, entry.Phone, entry.ID), nil); err != nil {
		return err
	}
	return nil
}

func deleteEntry(ctx context.Context, tx *Tx, id string) error {
	entry, err := findEntryByID(ctx, tx, id)
	if err != nil {
		return err
	} else if entry == nil {
		return wishlist.ErrEntryNotFound
	}

	if err := tx.Bucket(entriesBucket).Delete([]byte(id)); err != nil {
		return err
	} else if err := tx.Bucket(entriesPhoneBucket).Delete(makeIndexKey(entry.Phone, entry.ID)); err != nil {
		return err
	} else if err := tx.Bucket(entriesUniqueBucket).Delete(makeIndexKey(entry.Phone, entry.MerchantID, entry.ProductID)); err != nil {
		return err
	} else if err := tx.Bucket(productEntriesBucket).Delete(makeIndexKey(entry.ProductID, entry.Phone, entry.ID)); err != nil {
		return err
	}
	return nil
}

func marshalEntry(v *wishlist.Entry) ([]byte, error) {
	return proto.Marshal(&Entry{
		ID:         v.ID,
		Phone:      v.Phone,
		MerchantID: v.MerchantID,
		ProductID:  v.ProductID,
		AddedAt:    encodeTime(v.AddedAt),
	})
}

func unmarshalEntry(data []byte, v *wishlist.Entry) error {
	var pb Entry
	if err := proto.Unmarshal(data, &pb); err != nil {
		return err
	}
	*v = wishlist.Entry{
		ID:         pb.ID,
		Phone:      pb.Phone,
		MerchantID: pb.MerchantID,
		ProductID:  pb.ProductID,
		AddedAt:    decodeTime(pb.AddedAt),
	}
	return nil
}
