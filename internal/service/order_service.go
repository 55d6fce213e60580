package service

import (
	"context"
	"errors"
	"time"

	"jungle-backend/internal/models"
	"jungle-backend/internal/store"
	"jungle-backend/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderStore is the slice of the document store the order service needs.
// Product reads go straight to Mongo so the prices frozen into the order are
// the current ones, never cached.
type OrderStore interface {
	GetCart(ctx context.Context, userID string) (*models.Cart, error)
	GetProductByID(ctx context.Context, id string) (*models.Product, error)
	CreateOrder(ctx context.Context, order *models.Order) error
	GetUserOrder(ctx context.Context, orderID, userID string) (*models.Order, error)
	ListUserOrders(ctx context.Context, userID string) ([]models.Order, error)
	ListAllOrders(ctx context.Context) ([]models.Order, error)
}

// Pricing carries the storefront's shipping rule: orders under the threshold
// pay a flat fee, orders at or above it ship free.
type Pricing struct {
	FreeShippingThreshold float64
	ShippingFee           float64
}

// ShippingFor returns the shipping contribution for a subtotal.
func (p Pricing) ShippingFor(subtotal float64) float64 {
	if subtotal >= p.FreeShippingThreshold {
		return 0
	}
	return p.ShippingFee
}

// OrderService converts carts into immutable, price-frozen orders.
type OrderService struct {
	store     OrderStore
	publisher Publisher
	pricing   Pricing
	logger    *zap.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(store OrderStore, publisher Publisher, pricing Pricing) *OrderService {
	return &OrderService{
		store:     store,
		publisher: publisher,
		pricing:   pricing,
		logger:    util.GetLogger(),
	}
}

// CreateOrderResult is the outcome of an order creation. DroppedProducts
// lists cart lines whose product vanished between add-to-cart and checkout;
// they are excluded from the order and reported rather than silently eaten.
type CreateOrderResult struct {
	Order           *models.Order `json:"order"`
	DroppedProducts []string      `json:"dropped_products"`
}

// CreateOrder snapshots the user's cart into a new pending order. The cart is
// left untouched; it is cleared only when payment settles, so a user can cut
// several orders from one cart before paying for any of them.
func (s *OrderService) CreateOrder(ctx context.Context, userID string, address models.ShippingAddress) (*CreateOrderResult, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.CreateOrder")
	defer span.End()

	cart, err := s.store.GetCart(ctx, userID)
	if errors.Is(err, store.ErrCartNotFound) {
		util.OrdersFailedTotal.WithLabelValues("empty_cart").Inc()
		return nil, ErrEmptyCart
	}
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues("store_error").Inc()
		return nil, err
	}
	if len(cart.Items) == 0 {
		util.OrdersFailedTotal.WithLabelValues("empty_cart").Inc()
		return nil, ErrEmptyCart
	}

	items := make([]models.OrderItem, 0, len(cart.Items))
	dropped := []string{}
	var subtotal float64

	for _, line := range cart.Items {
		product, err := s.store.GetProductByID(ctx, line.ProductID)
		if errors.Is(err, store.ErrProductNotFound) {
			// Product deleted after it was carted. Drop the line and report it.
			dropped = append(dropped, line.ProductID)
			util.OrderItemsDroppedTotal.Inc()
			s.logger.Warn("Dropping cart line for missing product",
				zap.String("user_id", userID),
				zap.String("product_id", line.ProductID))
			continue
		}
		if err != nil {
			util.OrdersFailedTotal.WithLabelValues("store_error").Inc()
			return nil, err
		}

		items = append(items, models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Size:        line.Size,
			Color:       line.Color,
			Quantity:    line.Quantity,
			Price:       product.Price,
		})
		subtotal += product.Price * float64(line.Quantity)
	}

	total := subtotal
	if len(items) > 0 {
		total += s.pricing.ShippingFor(subtotal)
	}

	order := &models.Order{
		ID:              uuid.New().String(),
		UserID:          userID,
		Items:           items,
		TotalAmount:     total,
		ShippingAddress: address,
		PaymentStatus:   models.PaymentStatusPending,
		OrderStatus:     models.OrderStatusProcessing,
		CreatedAt:       time.Now().UTC(),
	}

	if err := s.store.CreateOrder(ctx, order); err != nil {
		util.OrdersFailedTotal.WithLabelValues("store_error").Inc()
		return nil, err
	}

	util.OrdersCreatedTotal.Inc()
	s.logger.Info("Order created",
		zap.String("order_id", order.ID),
		zap.Float64("total_amount", order.TotalAmount),
		zap.Int("dropped", len(dropped)))

	eventItems := make([]models.OrderItemData, 0, len(items))
	for _, item := range items {
		eventItems = append(eventItems, models.OrderItemData{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.Price,
		})
	}
	event := &models.OrderCreatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderCreated,
			Timestamp: time.Now().UTC(),
		},
		OrderID:     order.ID,
		UserID:      order.UserID,
		TotalAmount: order.TotalAmount,
		Items:       eventItems,
	}
	if err := s.publisher.PublishOrderCreated(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderCreated event", zap.Error(err))
	}

	return &CreateOrderResult{Order: order, DroppedProducts: dropped}, nil
}

// GetOrder retrieves an order scoped to its owner.
func (s *OrderService) GetOrder(ctx context.Context, orderID, userID string) (*models.Order, error) {
	return s.store.GetUserOrder(ctx, orderID, userID)
}

// ListOrders retrieves a user's orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context, userID string) ([]models.Order, error) {
	return s.store.ListUserOrders(ctx, userID)
}

// ListAllOrders retrieves every order, newest first.
func (s *OrderService) ListAllOrders(ctx context.Context) ([]models.Order, error) {
	return s.store.ListAllOrders(ctx)
}
