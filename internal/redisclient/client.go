package redisclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"jungle-backend/internal/models"

	"github.com/go-redis/redis/v8"
)

// ErrCacheMiss is returned when a key is absent. Callers fall through to Mongo.
var ErrCacheMiss = errors.New("cache miss")

const productTTL = 15 * time.Minute

// Client caches catalog reads. It is strictly an accelerator: every error
// other than a miss is safe to log and ignore.
type Client struct {
	rdb *redis.Client
}

// NewClient creates a Redis client and verifies connectivity.
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// GetProduct retrieves a cached product.
func (c *Client) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	data, err := c.rdb.Get(ctx, productKey(productID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var product models.Product
	if err := json.Unmarshal(data, &product); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached product: %w", err)
	}
	return &product, nil
}

// SetProduct caches a product.
func (c *Client) SetProduct(ctx context.Context, product *models.Product) error {
	data, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("failed to marshal product: %w", err)
	}
	if err := c.rdb.Set(ctx, productKey(product.ID), data, productTTL).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// GetProductList retrieves the cached unfiltered catalog listing.
func (c *Client) GetProductList(ctx context.Context) ([]models.Product, error) {
	data, err := c.rdb.Get(ctx, listKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached product list: %w", err)
	}
	return products, nil
}

// SetProductList caches the unfiltered catalog listing.
func (c *Client) SetProductList(ctx context.Context, products []models.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("failed to marshal product list: %w", err)
	}
	if err := c.rdb.Set(ctx, listKey, data, productTTL).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// InvalidateProducts drops all cached catalog entries after a write.
func (c *Client) InvalidateProducts(ctx context.Context, productIDs ...string) error {
	keys := make([]string, 0, len(productIDs)+1)
	keys = append(keys, listKey)
	for _, id := range productIDs {
		keys = append(keys, productKey(id))
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

const listKey = "products:all"

func productKey(id string) string {
	return fmt.Sprintf("product:%s", id)
}
