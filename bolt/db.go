package bolt

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/boltdb/bolt"
)

// ErrDatabaseClosed is returned when a transaction is started on a closed database.
var ErrDatabaseClosed = errors.New("bolt: database not open")

// DB represents a handle to a Bolt database.
type DB struct {
	db *bolt.DB

	Path string
	Now  func() time.Time
}

// NewDB returns a new instance of DB.
func NewDB() *DB {
	return &DB{
		Now: time.Now,
	}
}

// Open opens and initializes the database.
func (db *DB) Open() error {
	// Create parent directory, if necessary.
	if err := os.MkdirAll(filepath.Dir(db.Path), 0700); err != nil {
		return err
	}

	// Open bolt database.
	d, err := bolt.Open(db.Path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return err
	}
	db.db = d

	// Initialize top-level buckets.
	if err := d.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{
			pricesBucket,
			entriesBucket,
			entriesPhoneBucket,
			entriesUniqueBucket,
			productEntriesBucket,
			usersBucket,
			usersPhoneBucket,
		} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		db.Close()
		return err
	}

	return nil
}

// Close closes the database.
func (db *DB) Close() error {
	if db.db != nil {
		err := db.db.Close()
		db.db = nil
		return err
	}
	return nil
}

// Available returns true if the database is open.
func (db *DB) Available() bool {
	return db.db != nil
}

// Begin starts a new transaction.
func (db *DB) Begin(ctx context.Context, writable bool) (*Tx, error) {
	if db.db == nil {
		return nil, ErrDatabaseClosed
	}
	tx, err := db.db.Begin(writable)
	if err != nil {
		return nil, err
	}
	return &Tx{Tx: tx, Now: db.Now()}, nil
}

// Tx is a wrapper for bolt.Tx.
type Tx struct {
	*bolt.Tx
	Now time.Time
}
