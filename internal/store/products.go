package store

import (
	"context"
	"errors"
	"fmt"

	"jungle-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ProductFilter narrows catalog listings. Nil fields are ignored.
type ProductFilter struct {
	Category *string
	Featured *bool
	MinPrice *float64
	MaxPrice *float64
}

// IsEmpty reports whether the filter matches everything.
func (f ProductFilter) IsEmpty() bool {
	return f.Category == nil && f.Featured == nil && f.MinPrice == nil && f.MaxPrice == nil
}

func (f ProductFilter) query() bson.M {
	query := bson.M{}
	if f.Category != nil {
		query["category"] = *f.Category
	}
	if f.Featured != nil {
		query["featured"] = *f.Featured
	}
	if f.MinPrice != nil || f.MaxPrice != nil {
		price := bson.M{}
		if f.MinPrice != nil {
			price["$gte"] = *f.MinPrice
		}
		if f.MaxPrice != nil {
			price["$lte"] = *f.MaxPrice
		}
		query["price"] = price
	}
	return query
}

// CreateProduct inserts a new catalog item.
func (s *Store) CreateProduct(ctx context.Context, product *models.Product) error {
	if _, err := s.products().InsertOne(ctx, product); err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

// GetProductByID retrieves a single product.
func (s *Store) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := s.products().FindOne(ctx, bson.M{"id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &product, nil
}

// ListProducts retrieves catalog items matching the filter.
func (s *Store) ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	cur, err := s.products().Find(ctx, filter.query())
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	products := []models.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}
