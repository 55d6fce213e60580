package api

import (
	"errors"
	"net/http"

	"jungle-backend/internal/models"
	"jungle-backend/internal/store"

	"github.com/gin-gonic/gin"
)

// getCart returns the user's cart, creating it on first access
func (h *Handler) getCart(c *gin.Context) {
	cart, err := h.cartService.GetCart(c.Request.Context(), currentUserFrom(c).ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to get cart"})
		return
	}

	c.JSON(http.StatusOK, cart)
}

// addToCart merges a line into the cart
func (h *Handler) addToCart(c *gin.Context) {
	var item models.CartItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	if err := h.cartService.AddItem(c.Request.Context(), currentUserFrom(c).ID, item); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to add to cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item added to cart"})
}

// updateCartItem sets the quantity of a cart line
func (h *Handler) updateCartItem(c *gin.Context) {
	var item models.CartItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	err := h.cartService.UpdateItem(c.Request.Context(), currentUserFrom(c).ID, item)
	if errors.Is(err, store.ErrCartNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Cart not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to update cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart updated"})
}

// removeFromCart deletes a cart line by its variant triple
func (h *Handler) removeFromCart(c *gin.Context) {
	err := h.cartService.RemoveItem(
		c.Request.Context(),
		currentUserFrom(c).ID,
		c.Param("product_id"),
		c.Param("size"),
		c.Param("color"),
	)
	if errors.Is(err, store.ErrCartNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Cart not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to remove from cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
}

// clearCart empties the cart
func (h *Handler) clearCart(c *gin.Context) {
	if err := h.cartService.Clear(c.Request.Context(), currentUserFrom(c).ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to clear cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}
