package store

import (
	"context"
	"errors"
	"fmt"

	"jungle-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateOrder inserts a new order document.
func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	if _, err := s.orders().InsertOne(ctx, order); err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

// GetUserOrder retrieves an order scoped to its owner.
func (s *Store) GetUserOrder(ctx context.Context, orderID, userID string) (*models.Order, error) {
	var order models.Order
	err := s.orders().FindOne(ctx, bson.M{"id": orderID, "user_id": userID}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &order, nil
}

// ListUserOrders retrieves a user's orders, newest first.
func (s *Store) ListUserOrders(ctx context.Context, userID string) ([]models.Order, error) {
	return s.findOrders(ctx, bson.M{"user_id": userID})
}

// ListAllOrders retrieves every order, newest first.
func (s *Store) ListAllOrders(ctx context.Context) ([]models.Order, error) {
	return s.findOrders(ctx, bson.M{})
}

func (s *Store) findOrders(ctx context.Context, filter bson.M) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.orders().Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	orders := []models.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return orders, nil
}

// SetOrderSession records the gateway session reference on an order.
func (s *Store) SetOrderSession(ctx context.Context, orderID, sessionID string) error {
	update := bson.M{"$set": bson.M{"stripe_session_id": sessionID}}
	result, err := s.orders().UpdateOne(ctx, bson.M{"id": orderID}, update)
	if err != nil {
		return fmt.Errorf("failed to set order session: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// MarkOrderPaid advances an order to payment_status=paid, order_status=confirmed.
func (s *Store) MarkOrderPaid(ctx context.Context, orderID string) error {
	update := bson.M{"$set": bson.M{
		"payment_status": models.PaymentStatusPaid,
		"order_status":   models.OrderStatusConfirmed,
	}}
	result, err := s.orders().UpdateOne(ctx, bson.M{"id": orderID}, update)
	if err != nil {
		return fmt.Errorf("failed to mark order paid: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrOrderNotFound
	}
	return nil
}
