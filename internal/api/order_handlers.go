package api

import (
	"errors"
	"net/http"

	"jungle-backend/internal/models"
	"jungle-backend/internal/service"
	"jungle-backend/internal/store"

	"github.com/gin-gonic/gin"
)

type createOrderRequest struct {
	ShippingAddress models.ShippingAddress `json:"shipping_address" binding:"required"`
}

// createOrder snapshots the cart into a new order
func (h *Handler) createOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	result, err := h.orderService.CreateOrder(c.Request.Context(), currentUserFrom(c).ID, req.ShippingAddress)
	if errors.Is(err, service.ErrEmptyCart) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Cart is empty"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create order"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// listOrders returns the user's orders, newest first
func (h *Handler) listOrders(c *gin.Context) {
	orders, err := h.orderService.ListOrders(c.Request.Context(), currentUserFrom(c).ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to list orders"})
		return
	}

	c.JSON(http.StatusOK, orders)
}

// getOrder returns a single order scoped to its owner
func (h *Handler) getOrder(c *gin.Context) {
	order, err := h.orderService.GetOrder(c.Request.Context(), c.Param("id"), currentUserFrom(c).ID)
	if errors.Is(err, store.ErrOrderNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Order not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to get order"})
		return
	}

	c.JSON(http.StatusOK, order)
}

// listAllOrders returns every order for the back office
func (h *Handler) listAllOrders(c *gin.Context) {
	orders, err := h.orderService.ListAllOrders(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to list orders"})
		return
	}

	c.JSON(http.StatusOK, orders)
}
