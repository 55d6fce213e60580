package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Sentinel errors surfaced by lookups. Handlers map these to 404s.
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrProductNotFound     = errors.New("product not found")
	ErrCartNotFound        = errors.New("cart not found")
	ErrOrderNotFound       = errors.New("order not found")
	ErrTransactionNotFound = errors.New("transaction not found")
)

// Store wraps the Mongo database holding all storefront collections.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewStore connects to MongoDB and returns a store bound to the given database.
func NewStore(ctx context.Context, uri, database string) (*Store, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(100)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &Store{client: client, db: client.Database(database)}, nil
}

// Close disconnects the underlying Mongo client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) users() *mongo.Collection        { return s.db.Collection("users") }
func (s *Store) products() *mongo.Collection     { return s.db.Collection("products") }
func (s *Store) carts() *mongo.Collection        { return s.db.Collection("carts") }
func (s *Store) orders() *mongo.Collection       { return s.db.Collection("orders") }
func (s *Store) transactions() *mongo.Collection { return s.db.Collection("payment_transactions") }

// CreateIndexes sets up the unique keys the flow relies on: one user per
// email, one cart per user, one transaction per gateway session.
func (s *Store) CreateIndexes(ctx context.Context) error {
	unique := func(field string) mongo.IndexModel {
		return mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true),
		}
	}

	if _, err := s.users().Indexes().CreateOne(ctx, unique("email")); err != nil {
		return fmt.Errorf("failed to create users index: %w", err)
	}
	if _, err := s.carts().Indexes().CreateOne(ctx, unique("user_id")); err != nil {
		return fmt.Errorf("failed to create carts index: %w", err)
	}
	if _, err := s.transactions().Indexes().CreateOne(ctx, unique("session_id")); err != nil {
		return fmt.Errorf("failed to create transactions index: %w", err)
	}

	_, err := s.orders().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create orders index: %w", err)
	}

	return nil
}
