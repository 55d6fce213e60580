package service

import (
	"context"
	"errors"

	"jungle-backend/internal/models"
	"jungle-backend/internal/store"
	"jungle-backend/internal/util"

	"go.uber.org/zap"
)

// CartStore is the slice of the document store the cart service needs.
type CartStore interface {
	GetCart(ctx context.Context, userID string) (*models.Cart, error)
	CreateCart(ctx context.Context, cart *models.Cart) error
	ReplaceCartItems(ctx context.Context, userID string, items []models.CartItem) error
}

// CartService owns the mutable per-user staging collection.
type CartService struct {
	store  CartStore
	logger *zap.Logger
}

// NewCartService creates a new cart service.
func NewCartService(store CartStore) *CartService {
	return &CartService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// GetCart returns the user's cart, creating an empty one on first access.
func (s *CartService) GetCart(ctx context.Context, userID string) (*models.Cart, error) {
	cart, err := s.store.GetCart(ctx, userID)
	if errors.Is(err, store.ErrCartNotFound) {
		cart = models.NewCart(userID)
		if err := s.store.CreateCart(ctx, cart); err != nil {
			return nil, err
		}
		return cart, nil
	}
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// AddItem adds a line to the cart. An existing line for the same
// (product, size, color) triple is merged by summing quantities, so the cart
// never holds two lines for one variant.
func (s *CartService) AddItem(ctx context.Context, userID string, item models.CartItem) error {
	cart, err := s.store.GetCart(ctx, userID)
	if errors.Is(err, store.ErrCartNotFound) {
		cart = models.NewCart(userID)
		cart.Items = []models.CartItem{item}
		return s.store.CreateCart(ctx, cart)
	}
	if err != nil {
		return err
	}

	merged := false
	for i := range cart.Items {
		if cart.Items[i].SameVariant(item) {
			cart.Items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, item)
	}

	return s.store.ReplaceCartItems(ctx, userID, cart.Items)
}

// UpdateItem sets the quantity of the matching line. A line that is not in
// the cart is left alone, mirroring the storefront's optimistic UI.
func (s *CartService) UpdateItem(ctx context.Context, userID string, item models.CartItem) error {
	cart, err := s.store.GetCart(ctx, userID)
	if err != nil {
		return err
	}

	for i := range cart.Items {
		if cart.Items[i].SameVariant(item) {
			cart.Items[i].Quantity = item.Quantity
			break
		}
	}

	return s.store.ReplaceCartItems(ctx, userID, cart.Items)
}

// RemoveItem deletes the matching line from the cart.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID, size, color string) error {
	cart, err := s.store.GetCart(ctx, userID)
	if err != nil {
		return err
	}

	target := models.CartItem{ProductID: productID, Size: size, Color: color}
	kept := make([]models.CartItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		if !line.SameVariant(target) {
			kept = append(kept, line)
		}
	}

	return s.store.ReplaceCartItems(ctx, userID, kept)
}

// Clear empties the cart. The cart document survives; clearing a cart that
// was never created is a no-op.
func (s *CartService) Clear(ctx context.Context, userID string) error {
	err := s.store.ReplaceCartItems(ctx, userID, []models.CartItem{})
	if errors.Is(err, store.ErrCartNotFound) {
		return nil
	}
	return err
}
