package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered customer. The bcrypt hash is stored in Mongo
// but never serialized in API responses.
type User struct {
	ID           string    `bson:"id" json:"id"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"password" json:"-"`
	FirstName    string    `bson:"first_name" json:"first_name"`
	LastName     string    `bson:"last_name" json:"last_name"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}

// Product represents a catalog item. Stock is keyed by "size-color".
type Product struct {
	ID          string         `bson:"id" json:"id"`
	Name        string         `bson:"name" json:"name"`
	Description string         `bson:"description" json:"description"`
	Price       float64        `bson:"price" json:"price"`
	Images      []string       `bson:"images" json:"images"`
	Category    string         `bson:"category" json:"category"`
	Sizes       []string       `bson:"sizes" json:"sizes"`
	Colors      []string       `bson:"colors" json:"colors"`
	Stock       map[string]int `bson:"stock" json:"stock"`
	Featured    bool           `bson:"featured" json:"featured"`
	CreatedAt   time.Time      `bson:"created_at" json:"created_at"`
}

// CartItem is a single line in a cart, keyed by (product, size, color).
type CartItem struct {
	ProductID string `bson:"product_id" json:"product_id" binding:"required"`
	Size      string `bson:"size" json:"size" binding:"required"`
	Color     string `bson:"color" json:"color" binding:"required"`
	Quantity  int    `bson:"quantity" json:"quantity" binding:"required,min=1"`
}

// SameVariant reports whether two items refer to the same (product, size, color).
func (i CartItem) SameVariant(other CartItem) bool {
	return i.ProductID == other.ProductID && i.Size == other.Size && i.Color == other.Color
}

// Cart is the mutable per-user staging collection. One cart per user.
type Cart struct {
	ID        string     `bson:"id" json:"id"`
	UserID    string     `bson:"user_id" json:"user_id"`
	Items     []CartItem `bson:"items" json:"items"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
}

// NewCart creates an empty cart for a user.
func NewCart(userID string) *Cart {
	return &Cart{
		ID:        uuid.New().String(),
		UserID:    userID,
		Items:     []CartItem{},
		UpdatedAt: time.Now().UTC(),
	}
}

// OrderItem is an immutable snapshot of a cart line at order-creation time.
// Name and price are frozen here; later catalog edits do not affect orders.
type OrderItem struct {
	ProductID   string  `bson:"product_id" json:"product_id"`
	ProductName string  `bson:"product_name" json:"product_name"`
	Size        string  `bson:"size" json:"size"`
	Color       string  `bson:"color" json:"color"`
	Quantity    int     `bson:"quantity" json:"quantity"`
	Price       float64 `bson:"price" json:"price"`
}

// ShippingAddress is captured verbatim into the order.
type ShippingAddress struct {
	FirstName  string `bson:"first_name" json:"first_name" binding:"required"`
	LastName   string `bson:"last_name" json:"last_name" binding:"required"`
	Address    string `bson:"address" json:"address" binding:"required"`
	City       string `bson:"city" json:"city" binding:"required"`
	PostalCode string `bson:"postal_code" json:"postal_code" binding:"required"`
	Country    string `bson:"country" json:"country" binding:"required"`
	Phone      string `bson:"phone" json:"phone" binding:"required"`
}

// Order is created once from a cart snapshot and never deleted.
type Order struct {
	ID              string          `bson:"id" json:"id"`
	UserID          string          `bson:"user_id" json:"user_id"`
	Items           []OrderItem     `bson:"items" json:"items"`
	TotalAmount     float64         `bson:"total_amount" json:"total_amount"`
	ShippingAddress ShippingAddress `bson:"shipping_address" json:"shipping_address"`
	PaymentStatus   string          `bson:"payment_status" json:"payment_status"`
	OrderStatus     string          `bson:"order_status" json:"order_status"`
	StripeSessionID string          `bson:"stripe_session_id,omitempty" json:"stripe_session_id,omitempty"`
	CreatedAt       time.Time       `bson:"created_at" json:"created_at"`
}

// PaymentTransaction joins an order to a gateway checkout session. session_id
// is unique and is the join key to the gateway.
type PaymentTransaction struct {
	ID            string            `bson:"id" json:"id"`
	SessionID     string            `bson:"session_id" json:"session_id"`
	UserID        string            `bson:"user_id" json:"user_id"`
	OrderID       string            `bson:"order_id" json:"order_id"`
	Amount        float64           `bson:"amount" json:"amount"`
	Currency      string            `bson:"currency" json:"currency"`
	PaymentStatus string            `bson:"payment_status" json:"payment_status"`
	Metadata      map[string]string `bson:"metadata" json:"metadata"`
	CreatedAt     time.Time         `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time         `bson:"updated_at" json:"updated_at"`
}

// Order payment statuses
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
)

// Order fulfilment statuses, forward-only.
const (
	OrderStatusProcessing = "processing"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
)

// Transaction statuses. Only pending and paid are reachable through the
// checkout flow today; expired is set by the background sweeper and failed is
// reserved for a future cancellation webhook.
const (
	TransactionStatusPending = "pending"
	TransactionStatusPaid    = "paid"
	TransactionStatusExpired = "expired"
	TransactionStatusFailed  = "failed"
)
