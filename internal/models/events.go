package models

import "time"

// Event types
const (
	EventTypeOrderCreated       = "ORDER_CREATED"
	EventTypePaymentSettled     = "PAYMENT_SETTLED"
	EventTypeTransactionExpired = "TRANSACTION_EXPIRED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderCreatedEvent published when an order is cut from a cart
type OrderCreatedEvent struct {
	BaseEvent
	OrderID     string          `json:"order_id"`
	UserID      string          `json:"user_id"`
	TotalAmount float64         `json:"total_amount"`
	Items       []OrderItemData `json:"items"`
}

// PaymentSettledEvent published when a checkout session is confirmed paid
type PaymentSettledEvent struct {
	BaseEvent
	OrderID   string  `json:"order_id"`
	UserID    string  `json:"user_id"`
	SessionID string  `json:"session_id"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
}

// TransactionExpiredEvent published when the sweeper abandons a stale session
type TransactionExpiredEvent struct {
	BaseEvent
	OrderID   string `json:"order_id"`
	SessionID string `json:"session_id"`
}

// OrderItemData represents item data in events
type OrderItemData struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}
