package service

import (
	"context"
	"testing"

	"jungle-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCartCreatesLazily(t *testing.T) {
	s := newMemStore()
	svc := NewCartService(s)

	cart, err := svc.GetCart(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", cart.UserID)
	assert.Empty(t, cart.Items)

	again, err := svc.GetCart(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID)
}

func TestAddItemMergesSameVariant(t *testing.T) {
	s := newMemStore()
	svc := NewCartService(s)

	item := models.CartItem{ProductID: "prod-a", Size: "M", Color: "Noir", Quantity: 1}
	require.NoError(t, svc.AddItem(context.Background(), "user-1", item))
	require.NoError(t, svc.AddItem(context.Background(), "user-1", models.CartItem{ProductID: "prod-a", Size: "M", Color: "Noir", Quantity: 2}))

	cart, err := svc.GetCart(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
}

func TestAddItemKeepsDistinctVariantsApart(t *testing.T) {
	s := newMemStore()
	svc := NewCartService(s)

	require.NoError(t, svc.AddItem(context.Background(), "user-1", models.CartItem{ProductID: "prod-a", Size: "M", Color: "Noir", Quantity: 1}))
	require.NoError(t, svc.AddItem(context.Background(), "user-1", models.CartItem{ProductID: "prod-a", Size: "L", Color: "Noir", Quantity: 1}))
	require.NoError(t, svc.AddItem(context.Background(), "user-1", models.CartItem{ProductID: "prod-a", Size: "M", Color: "Beige", Quantity: 1}))

	cart, err := svc.GetCart(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Len(t, cart.Items, 3)
}

func TestUpdateItemSetsQuantity(t *testing.T) {
	s := newMemStore()
	svc := NewCartService(s)

	require.NoError(t, svc.AddItem(context.Background(), "user-1", models.CartItem{ProductID: "prod-a", Size: "M", Color: "Noir", Quantity: 1}))
	require.NoError(t, svc.UpdateItem(context.Background(), "user-1", models.CartItem{ProductID: "prod-a", Size: "M", Color: "Noir", Quantity: 5}))

	cart, err := svc.GetCart(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
}

func TestRemoveItem(t *testing.T) {
	s := newMemStore()
	svc := NewCartService(s)

	require.NoError(t, svc.AddItem(context.Background(), "user-1", models.CartItem{ProductID: "prod-a", Size: "M", Color: "Noir", Quantity: 1}))
	require.NoError(t, svc.AddItem(context.Background(), "user-1", models.CartItem{ProductID: "prod-b", Size: "S", Color: "Beige", Quantity: 1}))

	require.NoError(t, svc.RemoveItem(context.Background(), "user-1", "prod-a", "M", "Noir"))

	cart, err := svc.GetCart(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "prod-b", cart.Items[0].ProductID)
}

func TestClearKeepsCartDocument(t *testing.T) {
	s := newMemStore()
	svc := NewCartService(s)

	require.NoError(t, svc.AddItem(context.Background(), "user-1", models.CartItem{ProductID: "prod-a", Size: "M", Color: "Noir", Quantity: 1}))
	require.NoError(t, svc.Clear(context.Background(), "user-1"))

	cart, err := s.GetCart(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestClearWithoutCartIsNoop(t *testing.T) {
	s := newMemStore()
	svc := NewCartService(s)

	assert.NoError(t, svc.Clear(context.Background(), "user-1"))
}
