package service

import (
	"context"
	"errors"
	"time"

	"jungle-backend/internal/models"
	"jungle-backend/internal/redisclient"
	"jungle-backend/internal/store"
	"jungle-backend/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CatalogStore is the slice of the document store the catalog service needs.
type CatalogStore interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProductByID(ctx context.Context, id string) (*models.Product, error)
	ListProducts(ctx context.Context, filter store.ProductFilter) ([]models.Product, error)
}

// ProductCache accelerates catalog reads. Any failure falls back to Mongo.
type ProductCache interface {
	GetProduct(ctx context.Context, productID string) (*models.Product, error)
	SetProduct(ctx context.Context, product *models.Product) error
	GetProductList(ctx context.Context) ([]models.Product, error)
	SetProductList(ctx context.Context, products []models.Product) error
	InvalidateProducts(ctx context.Context, productIDs ...string) error
}

// CatalogService serves product reads through a read-through cache. Order
// creation deliberately bypasses it: frozen prices must be current.
type CatalogService struct {
	store  CatalogStore
	cache  ProductCache
	logger *zap.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(store CatalogStore, cache ProductCache) *CatalogService {
	return &CatalogService{
		store:  store,
		cache:  cache,
		logger: util.GetLogger(),
	}
}

// CreateProductRequest is the product creation payload.
type CreateProductRequest struct {
	Name        string         `json:"name" binding:"required"`
	Description string         `json:"description" binding:"required"`
	Price       float64        `json:"price" binding:"required,gt=0"`
	Images      []string       `json:"images" binding:"required"`
	Category    string         `json:"category" binding:"required"`
	Sizes       []string       `json:"sizes"`
	Colors      []string       `json:"colors" binding:"required"`
	Stock       map[string]int `json:"stock" binding:"required"`
	Featured    bool           `json:"featured"`
}

// CreateProduct inserts a catalog item and drops the stale cache entries.
func (s *CatalogService) CreateProduct(ctx context.Context, req *CreateProductRequest) (*models.Product, error) {
	sizes := req.Sizes
	if len(sizes) == 0 {
		sizes = []string{"XS", "S", "M", "L", "XL"}
	}

	product := &models.Product{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Images:      req.Images,
		Category:    req.Category,
		Sizes:       sizes,
		Colors:      req.Colors,
		Stock:       req.Stock,
		Featured:    req.Featured,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.store.CreateProduct(ctx, product); err != nil {
		return nil, err
	}

	if err := s.cache.InvalidateProducts(ctx, product.ID); err != nil {
		s.logger.Warn("Failed to invalidate product cache", zap.Error(err))
	}
	return product, nil
}

// GetProduct retrieves a product, cache first.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	if product, err := s.cache.GetProduct(ctx, id); err == nil {
		util.CacheHitsTotal.WithLabelValues("hit").Inc()
		return product, nil
	} else if !errors.Is(err, redisclient.ErrCacheMiss) {
		s.logger.Warn("Product cache read failed", zap.Error(err))
	}
	util.CacheHitsTotal.WithLabelValues("miss").Inc()

	product, err := s.store.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetProduct(ctx, product); err != nil {
		s.logger.Warn("Product cache write failed", zap.Error(err))
	}
	return product, nil
}

// ListProducts retrieves catalog items. Only the unfiltered listing is cached;
// filtered queries always hit the store.
func (s *CatalogService) ListProducts(ctx context.Context, filter store.ProductFilter) ([]models.Product, error) {
	if !filter.IsEmpty() {
		return s.store.ListProducts(ctx, filter)
	}

	if products, err := s.cache.GetProductList(ctx); err == nil {
		util.CacheHitsTotal.WithLabelValues("hit").Inc()
		return products, nil
	} else if !errors.Is(err, redisclient.ErrCacheMiss) {
		s.logger.Warn("Product list cache read failed", zap.Error(err))
	}
	util.CacheHitsTotal.WithLabelValues("miss").Inc()

	products, err := s.store.ListProducts(ctx, filter)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetProductList(ctx, products); err != nil {
		s.logger.Warn("Product list cache write failed", zap.Error(err))
	}
	return products, nil
}
