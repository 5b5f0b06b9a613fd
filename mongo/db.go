// Package mongo implements durable storage backends on MongoDB.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// DefaultName is the database name used when none is configured.
const DefaultName = "wishlist"

// DefaultConnectTimeout bounds the initial connection and ping.
const DefaultConnectTimeout = 5 * time.Second

// Collection names.
const (
	priceHistoriesCollection = "pricehistories"
	wishlistItemsCollection  = "wishlistitems"
	usersCollection          = "users"
)

// ErrURIRequired is returned when opening without a connection string.
var ErrURIRequired = errors.New("mongo: uri required")

// DB represents a connection to a MongoDB database.
type DB struct {
	client    *mongo.Client
	db        *mongo.Database
	connected atomic.Bool

	URI            string
	Name           string
	ConnectTimeout time.Duration
}

// NewDB returns a new instance of DB.
func NewDB() *DB {
	return &DB{
		Name:           DefaultName,
		ConnectTimeout: DefaultConnectTimeout,
	}
}

// Open connects to the server, verifies connectivity and creates indexes.
// Connectivity is then tracked from server heartbeats.
func (db *DB) Open(ctx context.Context) error {
	if db.URI == "" {
		return ErrURIRequired
	}

	ctx, cancel := context.WithTimeout(ctx, db.ConnectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(db.URI).
		SetServerSelectionTimeout(db.ConnectTimeout).
		SetServerMonitor(&event.ServerMonitor{
			ServerHeartbeatSucceeded: func(*event.ServerHeartbeatSucceededEvent) { db.connected.Store(true) },
			ServerHeartbeatFailed:    func(*event.ServerHeartbeatFailedEvent) { db.connected.Store(false) },
		})

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return fmt.Errorf("mongo connect: %w", err)
	}
	db.client = client
	db.db = client.Database(db.Name)

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		db.Close()
		return fmt.Errorf("mongo ping: %w", err)
	}
	db.connected.Store(true)

	if err := db.createIndexes(ctx); err != nil {
		db.Close()
		return fmt.Errorf("mongo indexes: %w", err)
	}
	return nil
}

func (db *DB) createIndexes(ctx context.Context) error {
	if _, err := db.db.Collection(priceHistoriesCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "productId", Value: 1}, {Key: "timestamp", Value: -1}}},
	}); err != nil {
		return err
	}

	if _, err := db.db.Collection(wishlistItemsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "phone", Value: 1}, {Key: "merchantId", Value: 1}, {Key: "productId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "productId", Value: 1}}},
	}); err != nil {
		return err
	}

	if _, err := db.db.Collection(usersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "phone", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}); err != nil {
		return err
	}
	return nil
}

// Close disconnects from the server.
func (db *DB) Close() error {
	db.connected.Store(false)
	if db.client == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), db.ConnectTimeout)
	defer cancel()

	err := db.client.Disconnect(ctx)
	db.client, db.db = nil, nil
	return err
}

// Available returns true while the server is reachable.
func (db *DB) Available() bool {
	return db.connected.Load()
}

func (db *DB) collection(name string) (*mongo.Collection, error) {
	if db.db == nil {
		return nil, errors.New("mongo: database not open")
	}
	return db.db.Collection(name), nil
}
