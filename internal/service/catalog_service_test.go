package service

import (
	"context"
	"testing"

	"jungle-backend/internal/models"
	"jungle-backend/internal/redisclient"
	"jungle-backend/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCache is an in-memory ProductCache with call counters.
type fakeCache struct {
	products map[string]*models.Product
	list     []models.Product
	hasList  bool

	productReads int
	listReads    int
	invalidated  int
}

func newFakeCache() *fakeCache {
	return &fakeCache{products: map[string]*models.Product{}}
}

func (f *fakeCache) GetProduct(_ context.Context, productID string) (*models.Product, error) {
	f.productReads++
	if p, ok := f.products[productID]; ok {
		return p, nil
	}
	return nil, redisclient.ErrCacheMiss
}

func (f *fakeCache) SetProduct(_ context.Context, product *models.Product) error {
	f.products[product.ID] = product
	return nil
}

func (f *fakeCache) GetProductList(_ context.Context) ([]models.Product, error) {
	f.listReads++
	if f.hasList {
		return f.list, nil
	}
	return nil, redisclient.ErrCacheMiss
}

func (f *fakeCache) SetProductList(_ context.Context, products []models.Product) error {
	f.list = products
	f.hasList = true
	return nil
}

func (f *fakeCache) InvalidateProducts(_ context.Context, productIDs ...string) error {
	f.invalidated++
	f.hasList = false
	for _, id := range productIDs {
		delete(f.products, id)
	}
	return nil
}

func TestCreateProductDefaultsSizesAndInvalidates(t *testing.T) {
	s := newMemStore()
	cache := newFakeCache()
	svc := NewCatalogService(s, cache)

	product, err := svc.CreateProduct(context.Background(), &CreateProductRequest{
		Name:        "Tropical One-Piece",
		Description: "Printed one-piece",
		Price:       89,
		Images:      []string{"https://img.example/one-piece.jpg"},
		Category:    "one-piece",
		Colors:      []string{"Noir"},
		Stock:       map[string]int{"M-Noir": 10},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"XS", "S", "M", "L", "XL"}, product.Sizes)
	assert.NotEmpty(t, product.ID)
	assert.Equal(t, 1, cache.invalidated)
}

func TestGetProductReadThrough(t *testing.T) {
	s := newMemStore()
	cache := newFakeCache()
	svc := NewCatalogService(s, cache)

	seedProduct(s, "prod-a", "Tropical One-Piece", 89)

	first, err := svc.GetProduct(context.Background(), "prod-a")
	require.NoError(t, err)
	assert.Equal(t, "prod-a", first.ID)

	// Second read is served from the cache
	second, err := svc.GetProduct(context.Background(), "prod-a")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 2, cache.productReads)
	assert.Contains(t, cache.products, "prod-a")
}

func TestGetProductNotFound(t *testing.T) {
	s := newMemStore()
	svc := NewCatalogService(s, newFakeCache())

	_, err := svc.GetProduct(context.Background(), "ghost")
	assert.ErrorIs(t, err, store.ErrProductNotFound)
}

func TestListProductsCachesOnlyUnfiltered(t *testing.T) {
	s := newMemStore()
	cache := newFakeCache()
	svc := NewCatalogService(s, cache)

	seedProduct(s, "prod-a", "Tropical One-Piece", 89)
	seedProduct(s, "prod-b", "Palm Bikini Top", 68)

	all, err := svc.ListProducts(context.Background(), store.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.True(t, cache.hasList)

	category := "one-piece"
	listReadsBefore := cache.listReads
	_, err = svc.ListProducts(context.Background(), store.ProductFilter{Category: &category})
	require.NoError(t, err)
	assert.Equal(t, listReadsBefore, cache.listReads)
}
