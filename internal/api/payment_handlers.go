package api

import (
	"errors"
	"io"
	"net/http"

	"jungle-backend/internal/gateway"
	"jungle-backend/internal/service"
	"jungle-backend/internal/store"

	"github.com/gin-gonic/gin"
)

// createCheckout opens a hosted payment session for an order
func (h *Handler) createCheckout(c *gin.Context) {
	var req service.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	resp, err := h.paymentService.CreateCheckout(c.Request.Context(), currentUserFrom(c), &req)
	if errors.Is(err, store.ErrOrderNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Order not found"})
		return
	}
	if errors.Is(err, service.ErrAlreadyPaid) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Order already paid"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Checkout failed"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// paymentStatus reconciles and reports a checkout session's state
func (h *Handler) paymentStatus(c *gin.Context) {
	resp, err := h.paymentService.CheckStatus(c.Request.Context(), currentUserFrom(c), c.Param("session_id"))
	if errors.Is(err, store.ErrTransactionNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Transaction not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to check payment status"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// stripeWebhook receives gateway notifications
func (h *Handler) stripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid payload"})
		return
	}

	err = h.paymentService.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature"))
	if errors.Is(err, gateway.ErrBadSignature) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid signature"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Webhook processing failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
