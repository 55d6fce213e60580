package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"jungle-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// GetCart retrieves the cart owned by a user.
func (s *Store) GetCart(ctx context.Context, userID string) (*models.Cart, error) {
	var cart models.Cart
	err := s.carts().FindOne(ctx, bson.M{"user_id": userID}).Decode(&cart)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return &cart, nil
}

// CreateCart inserts a new cart document.
func (s *Store) CreateCart(ctx context.Context, cart *models.Cart) error {
	if _, err := s.carts().InsertOne(ctx, cart); err != nil {
		return fmt.Errorf("failed to insert cart: %w", err)
	}
	return nil
}

// ReplaceCartItems overwrites the full item list of a user's cart. The cart
// document itself survives; an emptied cart is still a cart.
func (s *Store) ReplaceCartItems(ctx context.Context, userID string, items []models.CartItem) error {
	update := bson.M{"$set": bson.M{
		"items":      items,
		"updated_at": time.Now().UTC(),
	}}

	result, err := s.carts().UpdateOne(ctx, bson.M{"user_id": userID}, update)
	if err != nil {
		return fmt.Errorf("failed to update cart items: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrCartNotFound
	}
	return nil
}
