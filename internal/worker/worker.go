package worker

import (
	"context"
	"time"

	"jungle-backend/internal/models"
	"jungle-backend/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TransactionExpirer marks stale pending transactions as expired.
type TransactionExpirer interface {
	ExpireStaleTransactions(ctx context.Context, cutoff time.Time) ([]models.PaymentTransaction, error)
}

// ExpiryPublisher announces abandoned checkout sessions.
type ExpiryPublisher interface {
	PublishTransactionExpired(ctx context.Context, event *models.TransactionExpiredEvent) error
}

// ExpiryWorker sweeps pending payment transactions that outlived their TTL.
// A checkout session the user walked away from would otherwise stay pending
// forever; the sweep moves it to expired so the fast path stops trusting it.
type ExpiryWorker struct {
	store     TransactionExpirer
	publisher ExpiryPublisher
	ttl       time.Duration
	interval  time.Duration
	logger    *zap.Logger
}

// NewExpiryWorker creates a new expiry worker.
func NewExpiryWorker(store TransactionExpirer, publisher ExpiryPublisher, ttl, interval time.Duration) *ExpiryWorker {
	return &ExpiryWorker{
		store:     store,
		publisher: publisher,
		ttl:       ttl,
		interval:  interval,
		logger:    util.GetLogger(),
	}
}

// Start runs the sweep loop until the context is cancelled.
func (w *ExpiryWorker) Start(ctx context.Context) {
	w.logger.Info("Starting expiry worker",
		zap.Duration("ttl", w.ttl),
		zap.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Stopping expiry worker")
			return
		case <-ticker.C:
			w.Sweep(ctx)
		}
	}
}

// Sweep runs one expiry pass.
func (w *ExpiryWorker) Sweep(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-w.ttl)

	expired, err := w.store.ExpireStaleTransactions(ctx, cutoff)
	if err != nil {
		w.logger.Error("Expiry sweep failed", zap.Error(err))
		return
	}
	if len(expired) == 0 {
		return
	}

	util.TransactionsExpiredTotal.Add(float64(len(expired)))
	w.logger.Info("Expired stale transactions", zap.Int("count", len(expired)))

	for _, tx := range expired {
		event := &models.TransactionExpiredEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeTransactionExpired,
				Timestamp: time.Now().UTC(),
			},
			OrderID:   tx.OrderID,
			SessionID: tx.SessionID,
		}
		if err := w.publisher.PublishTransactionExpired(ctx, event); err != nil {
			w.logger.Error("Failed to publish TransactionExpired event",
				zap.String("session_id", tx.SessionID),
				zap.Error(err))
		}
	}
}
