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

// CreateTransaction inserts a new payment transaction.
func (s *Store) CreateTransaction(ctx context.Context, tx *models.PaymentTransaction) error {
	if _, err := s.transactions().InsertOne(ctx, tx); err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// GetTransactionBySession retrieves the transaction joined to a gateway session.
func (s *Store) GetTransactionBySession(ctx context.Context, sessionID string) (*models.PaymentTransaction, error) {
	var tx models.PaymentTransaction
	err := s.transactions().FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&tx)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &tx, nil
}

// SettleTransaction flips a transaction to paid, but only if it is not paid
// already. The conditional filter is the single-winner gate: of two concurrent
// settlement attempts only one observes a modified document. Returns true when
// this caller won the transition.
func (s *Store) SettleTransaction(ctx context.Context, sessionID string) (bool, error) {
	filter := bson.M{
		"session_id": sessionID,
		"payment_status": bson.M{"$in": []string{
			models.TransactionStatusPending,
			models.TransactionStatusExpired,
		}},
	}
	update := bson.M{"$set": bson.M{
		"payment_status": models.TransactionStatusPaid,
		"updated_at":     time.Now().UTC(),
	}}

	result, err := s.transactions().UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to settle transaction: %w", err)
	}
	return result.ModifiedCount > 0, nil
}

// ExpireStaleTransactions marks transactions still pending after the cutoff as
// expired and returns them. An expired transaction can still settle later if
// the gateway reports a genuine payment.
func (s *Store) ExpireStaleTransactions(ctx context.Context, cutoff time.Time) ([]models.PaymentTransaction, error) {
	filter := bson.M{
		"payment_status": models.TransactionStatusPending,
		"created_at":     bson.M{"$lt": cutoff},
	}

	cur, err := s.transactions().Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find stale transactions: %w", err)
	}

	stale := []models.PaymentTransaction{}
	if err := cur.All(ctx, &stale); err != nil {
		return nil, fmt.Errorf("failed to decode stale transactions: %w", err)
	}

	expired := make([]models.PaymentTransaction, 0, len(stale))
	for _, tx := range stale {
		// Re-check status per document so a settlement racing the sweep wins.
		res, err := s.transactions().UpdateOne(ctx, bson.M{
			"session_id":     tx.SessionID,
			"payment_status": models.TransactionStatusPending,
		}, bson.M{"$set": bson.M{
			"payment_status": models.TransactionStatusExpired,
			"updated_at":     time.Now().UTC(),
		}})
		if err != nil {
			return expired, fmt.Errorf("failed to expire transaction %s: %w", tx.SessionID, err)
		}
		if res.ModifiedCount > 0 {
			tx.PaymentStatus = models.TransactionStatusExpired
			expired = append(expired, tx)
		}
	}

	return expired, nil
}
