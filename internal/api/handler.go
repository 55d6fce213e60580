package api

import (
	"net/http"
	"strconv"
	"time"

	"jungle-backend/internal/service"
	"jungle-backend/internal/util"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	authService    *service.AuthService
	catalogService *service.CatalogService
	cartService    *service.CartService
	orderService   *service.OrderService
	paymentService *service.PaymentService
	corsOrigins    []string
}

// NewHandler creates a new HTTP handler
func NewHandler(
	authService *service.AuthService,
	catalogService *service.CatalogService,
	cartService *service.CartService,
	orderService *service.OrderService,
	paymentService *service.PaymentService,
	corsOrigins []string,
) *Handler {
	return &Handler{
		authService:    authService,
		catalogService: catalogService,
		cartService:    cartService,
		orderService:   orderService,
		paymentService: paymentService,
		corsOrigins:    corsOrigins,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     h.corsOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Stripe-Signature"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.POST("/auth/register", h.register)
		api.POST("/auth/login", h.login)

		api.GET("/products", h.listProducts)
		api.GET("/products/:id", h.getProduct)

		api.POST("/webhook/stripe", h.stripeWebhook)

		authed := api.Group("")
		authed.Use(h.authMiddleware())
		{
			authed.GET("/auth/me", h.currentUser)

			authed.POST("/products", h.createProduct)

			authed.GET("/cart", h.getCart)
			authed.POST("/cart/add", h.addToCart)
			authed.POST("/cart/update", h.updateCartItem)
			authed.DELETE("/cart/remove/:product_id/:size/:color", h.removeFromCart)
			authed.DELETE("/cart/clear", h.clearCart)

			authed.POST("/orders", h.createOrder)
			authed.GET("/orders", h.listOrders)
			authed.GET("/orders/:id", h.getOrder)
			authed.GET("/admin/orders", h.listAllOrders)

			authed.POST("/payments/checkout", h.createCheckout)
			authed.GET("/payments/status/:session_id", h.paymentStatus)
		}
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
