package api

import (
	"errors"
	"net/http"
	"strconv"

	"jungle-backend/internal/service"
	"jungle-backend/internal/store"

	"github.com/gin-gonic/gin"
)

// listProducts handles catalog listing with optional filters
func (h *Handler) listProducts(c *gin.Context) {
	var filter store.ProductFilter

	if category := c.Query("category"); category != "" {
		filter.Category = &category
	}
	if raw := c.Query("featured"); raw != "" {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid featured flag"})
			return
		}
		filter.Featured = &featured
	}
	if raw := c.Query("min_price"); raw != "" {
		minPrice, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid min_price"})
			return
		}
		filter.MinPrice = &minPrice
	}
	if raw := c.Query("max_price"); raw != "" {
		maxPrice, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid max_price"})
			return
		}
		filter.MaxPrice = &maxPrice
	}

	products, err := h.catalogService.ListProducts(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to list products"})
		return
	}

	c.JSON(http.StatusOK, products)
}

// getProduct handles single product retrieval
func (h *Handler) getProduct(c *gin.Context) {
	product, err := h.catalogService.GetProduct(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrProductNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Product not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to get product"})
		return
	}

	c.JSON(http.StatusOK, product)
}

// createProduct handles catalog item creation
func (h *Handler) createProduct(c *gin.Context) {
	var req service.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	product, err := h.catalogService.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create product"})
		return
	}

	c.JSON(http.StatusOK, product)
}
