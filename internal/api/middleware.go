package api

import (
	"errors"
	"net/http"
	"strings"

	"jungle-backend/internal/auth"
	"jungle-backend/internal/models"
	"jungle-backend/internal/store"

	"github.com/gin-gonic/gin"
)

const userContextKey = "currentUser"

// authMiddleware resolves the bearer token into a user document and aborts
// with 401 otherwise.
func (h *Handler) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")

		user, err := h.authService.ResolveToken(c.Request.Context(), token)
		if errors.Is(err, auth.ErrInvalidToken) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Invalid token"})
			return
		}
		if errors.Is(err, store.ErrUserNotFound) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "User not found"})
			return
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// currentUserFrom returns the user the auth middleware resolved.
func currentUserFrom(c *gin.Context) *models.User {
	return c.MustGet(userContextKey).(*models.User)
}
