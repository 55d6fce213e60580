package api

import (
	"errors"
	"net/http"

	"jungle-backend/internal/service"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// register handles user registration
func (h *Handler) register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	user, token, err := h.authService.Register(c.Request.Context(), &req)
	if errors.Is(err, service.ErrEmailTaken) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Email already registered"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Registration failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
}

// login handles credential login
func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid credentials"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
}

// currentUser returns the authenticated user
func (h *Handler) currentUser(c *gin.Context) {
	c.JSON(http.StatusOK, currentUserFrom(c))
}
