package broker

import (
	"context"
	"fmt"

	"jungle-backend/internal/models"
)

// EventPublisher handles publishing domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishOrderCreated publishes OrderCreated event
func (ep *EventPublisher) PublishOrderCreated(ctx context.Context, event *models.OrderCreatedEvent) error {
	return ep.producer.PublishEvent(ctx, orderKey(event.OrderID), event)
}

// PublishPaymentSettled publishes PaymentSettled event
func (ep *EventPublisher) PublishPaymentSettled(ctx context.Context, event *models.PaymentSettledEvent) error {
	return ep.producer.PublishEvent(ctx, orderKey(event.OrderID), event)
}

// PublishTransactionExpired publishes TransactionExpired event
func (ep *EventPublisher) PublishTransactionExpired(ctx context.Context, event *models.TransactionExpiredEvent) error {
	return ep.producer.PublishEvent(ctx, orderKey(event.OrderID), event)
}

func orderKey(orderID string) string {
	return fmt.Sprintf("order-%s", orderID)
}
