package service

import (
	"context"

	"jungle-backend/internal/gateway"
	"jungle-backend/internal/models"
)

// Publisher is the slice of the event broker the services need. Publish
// failures are logged by callers, never surfaced to API clients.
type Publisher interface {
	PublishOrderCreated(ctx context.Context, event *models.OrderCreatedEvent) error
	PublishPaymentSettled(ctx context.Context, event *models.PaymentSettledEvent) error
}

// CheckoutGateway is the external payment processor contract.
type CheckoutGateway interface {
	CreateSession(ctx context.Context, req *gateway.SessionRequest) (*gateway.Session, error)
	GetSession(ctx context.Context, sessionID string) (*gateway.SessionStatus, error)
	VerifyWebhook(payload []byte, sigHeader string) (*gateway.WebhookEvent, error)
}
