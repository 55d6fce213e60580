package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"jungle-backend/internal/gateway"
	"jungle-backend/internal/models"
	"jungle-backend/internal/store"
	"jungle-backend/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentStore is the slice of the document store the payment service needs.
type PaymentStore interface {
	GetUserOrder(ctx context.Context, orderID, userID string) (*models.Order, error)
	SetOrderSession(ctx context.Context, orderID, sessionID string) error
	MarkOrderPaid(ctx context.Context, orderID string) error
	CreateTransaction(ctx context.Context, tx *models.PaymentTransaction) error
	GetTransactionBySession(ctx context.Context, sessionID string) (*models.PaymentTransaction, error)
	SettleTransaction(ctx context.Context, sessionID string) (bool, error)
	ReplaceCartItems(ctx context.Context, userID string, items []models.CartItem) error
}

// PaymentService orchestrates checkout session creation and settlement: the
// only multi-step state transitions in the system.
type PaymentService struct {
	store     PaymentStore
	gateway   CheckoutGateway
	publisher Publisher
	currency  string
	logger    *zap.Logger
}

// NewPaymentService creates a new payment service.
func NewPaymentService(store PaymentStore, gw CheckoutGateway, publisher Publisher, currency string) *PaymentService {
	return &PaymentService{
		store:     store,
		gateway:   gw,
		publisher: publisher,
		currency:  currency,
		logger:    util.GetLogger(),
	}
}

// CheckoutRequest is the checkout creation payload.
type CheckoutRequest struct {
	OrderID   string `json:"order_id" binding:"required"`
	OriginURL string `json:"origin_url" binding:"required"`
}

// CheckoutResponse carries the hosted payment page the client redirects to.
type CheckoutResponse struct {
	URL       string `json:"url"`
	SessionID string `json:"session_id"`
}

// StatusResponse is the polled settlement state of a checkout session.
type StatusResponse struct {
	Status  string `json:"status"`
	OrderID string `json:"order_id"`
}

// CreateCheckout requests a hosted payment session for an order and records
// the joining transaction. One outbound call, no retry: a gateway failure
// propagates and the user retries the whole operation.
func (s *PaymentService) CreateCheckout(ctx context.Context, user *models.User, req *CheckoutRequest) (*CheckoutResponse, error) {
	ctx, span := util.StartSpan(ctx, "PaymentService.CreateCheckout")
	defer span.End()

	order, err := s.store.GetUserOrder(ctx, req.OrderID, user.ID)
	if err != nil {
		util.CheckoutFailedTotal.WithLabelValues("order_not_found").Inc()
		return nil, err
	}

	if order.PaymentStatus == models.PaymentStatusPaid {
		util.CheckoutFailedTotal.WithLabelValues("already_paid").Inc()
		return nil, ErrAlreadyPaid
	}

	origin := strings.TrimSuffix(req.OriginURL, "/")
	sessionReq := &gateway.SessionRequest{
		Amount:   order.TotalAmount,
		Currency: s.currency,
		// The gateway substitutes the session id into the placeholder after
		// redirect; it must reach Stripe unexpanded.
		SuccessURL: origin + "/checkout/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  origin + "/checkout/cancel",
		Metadata: map[string]string{
			"order_id":   order.ID,
			"user_id":    user.ID,
			"user_email": user.Email,
		},
	}

	start := time.Now()
	session, err := s.gateway.CreateSession(ctx, sessionReq)
	util.GatewayRequestLatency.WithLabelValues("create_session").Observe(time.Since(start).Seconds())
	if err != nil {
		util.CheckoutFailedTotal.WithLabelValues("gateway_error").Inc()
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	now := time.Now().UTC()
	tx := &models.PaymentTransaction{
		ID:            uuid.New().String(),
		SessionID:     session.ID,
		UserID:        user.ID,
		OrderID:       order.ID,
		Amount:        order.TotalAmount,
		Currency:      s.currency,
		PaymentStatus: models.TransactionStatusPending,
		Metadata:      sessionReq.Metadata,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.CreateTransaction(ctx, tx); err != nil {
		util.CheckoutFailedTotal.WithLabelValues("store_error").Inc()
		return nil, err
	}

	if err := s.store.SetOrderSession(ctx, order.ID, session.ID); err != nil {
		util.CheckoutFailedTotal.WithLabelValues("store_error").Inc()
		return nil, err
	}

	util.CheckoutSessionsCreatedTotal.Inc()
	s.logger.Info("Checkout session created",
		zap.String("order_id", order.ID),
		zap.String("session_id", session.ID))

	return &CheckoutResponse{URL: session.URL, SessionID: session.ID}, nil
}

// CheckStatus reconciles a checkout session's settlement state. A transaction
// already stored as paid short-circuits without touching the gateway, which
// keeps the client's polling loop cheap. Otherwise the gateway is asked for
// the live status and, on paid, the settlement writes run exactly once.
//
// Only the session's owner may poll it; foreign sessions are indistinguishable
// from unknown ones.
func (s *PaymentService) CheckStatus(ctx context.Context, user *models.User, sessionID string) (*StatusResponse, error) {
	ctx, span := util.StartSpan(ctx, "PaymentService.CheckStatus")
	defer span.End()

	tx, err := s.store.GetTransactionBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if tx.UserID != user.ID {
		return nil, store.ErrTransactionNotFound
	}

	if tx.PaymentStatus == models.TransactionStatusPaid {
		util.PaymentStatusChecksTotal.WithLabelValues("fast").Inc()
		return &StatusResponse{Status: models.TransactionStatusPaid, OrderID: tx.OrderID}, nil
	}
	util.PaymentStatusChecksTotal.WithLabelValues("slow").Inc()

	start := time.Now()
	status, err := s.gateway.GetSession(ctx, sessionID)
	util.GatewayRequestLatency.WithLabelValues("get_session").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("failed to query checkout session: %w", err)
	}

	if status.PaymentStatus == gateway.SessionPaid {
		if err := s.settle(ctx, tx, "poll", true); err != nil {
			return nil, err
		}
	}

	return &StatusResponse{Status: status.PaymentStatus, OrderID: tx.OrderID}, nil
}

// HandleWebhook verifies a gateway notification and applies the same
// settlement as the polling path. The two paths race benignly: the
// transaction CAS lets exactly one of them through.
func (s *PaymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	ctx, span := util.StartSpan(ctx, "PaymentService.HandleWebhook")
	defer span.End()

	event, err := s.gateway.VerifyWebhook(payload, signature)
	if err != nil {
		return err
	}

	if event.PaymentStatus != gateway.SessionPaid {
		return nil
	}

	tx, err := s.store.GetTransactionBySession(ctx, event.SessionID)
	if errors.Is(err, store.ErrTransactionNotFound) {
		// A session we never issued. Acknowledge so the gateway stops retrying.
		s.logger.Warn("Webhook for unknown session", zap.String("session_id", event.SessionID))
		return nil
	}
	if err != nil {
		return err
	}

	// The webhook path does not clear the cart: the user may never return to
	// the storefront, and the poll path handles the common case.
	return s.settle(ctx, tx, "webhook", false)
}

// settle applies the three-part settlement: transaction to paid, order to
// paid/confirmed, optionally the cart emptied. The writes are not one atomic
// transaction; the CAS on the transaction status makes the sequence
// single-winner, and each individual write is idempotent in effect. A failure
// partway leaves the remaining writes to the next reconciliation attempt.
func (s *PaymentService) settle(ctx context.Context, tx *models.PaymentTransaction, origin string, clearCart bool) error {
	won, err := s.store.SettleTransaction(ctx, tx.SessionID)
	if err != nil {
		return err
	}
	if !won {
		return nil
	}

	if err := s.store.MarkOrderPaid(ctx, tx.OrderID); err != nil {
		return err
	}

	if clearCart {
		if err := s.store.ReplaceCartItems(ctx, tx.UserID, []models.CartItem{}); err != nil && !errors.Is(err, store.ErrCartNotFound) {
			return err
		}
	}

	util.PaymentsSettledTotal.WithLabelValues(origin).Inc()
	s.logger.Info("Payment settled",
		zap.String("order_id", tx.OrderID),
		zap.String("session_id", tx.SessionID),
		zap.String("origin", origin))

	event := &models.PaymentSettledEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypePaymentSettled,
			Timestamp: time.Now().UTC(),
		},
		OrderID:   tx.OrderID,
		UserID:    tx.UserID,
		SessionID: tx.SessionID,
		Amount:    tx.Amount,
		Currency:  tx.Currency,
	}
	if err := s.publisher.PublishPaymentSettled(ctx, event); err != nil {
		s.logger.Error("Failed to publish PaymentSettled event", zap.Error(err))
	}

	return nil
}
