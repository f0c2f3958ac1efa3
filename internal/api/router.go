package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/novamart/storefront/internal/api/handlers"
	"github.com/novamart/storefront/internal/api/middleware"
	"github.com/novamart/storefront/internal/checkout"
	"github.com/novamart/storefront/internal/config"
	"github.com/novamart/storefront/internal/orderapi"
	"github.com/novamart/storefront/internal/orders"
	"github.com/novamart/storefront/internal/payment"
)

// NewRouter creates and configures the Gin router
func NewRouter(
	cfg *config.Config,
	checkouts *checkout.Manager,
	orderStores *orders.Manager,
	orderClient *orderapi.Client,
	paymentAdapter *payment.Adapter,
	logger *zap.Logger,
) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(logger))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes (require authentication)
	v1 := router.Group("/v1")
	v1.Use(middleware.AuthMiddleware(cfg.API, logger))
	{
		cartRoutes := v1.Group("/cart")
		{
			cartRoutes.GET("", handlers.HandleGetCart(checkouts, logger))
			cartRoutes.POST("/items", handlers.HandleAddCartItem(checkouts, logger))
			cartRoutes.PUT("/items/:productId", handlers.HandleSetCartItemQuantity(checkouts, logger))
			cartRoutes.DELETE("/items/:productId", handlers.HandleRemoveCartItem(checkouts, logger))
			cartRoutes.DELETE("", handlers.HandleClearCart(checkouts, logger))
		}

		checkoutRoutes := v1.Group("/checkout")
		{
			checkoutRoutes.GET("", handlers.HandleGetCheckout(checkouts, logger))
			checkoutRoutes.POST("/shipping", handlers.HandleSubmitShipping(checkouts, logger))
			checkoutRoutes.PATCH("/shipping", handlers.HandleSetShippingField(checkouts, logger))
			checkoutRoutes.POST("/payment", handlers.HandleSubmitPayment(checkouts, paymentAdapter, logger))
			checkoutRoutes.POST("/advance", handlers.HandleAdvanceStep(checkouts, logger))
			checkoutRoutes.POST("/back", handlers.HandleBackStep(checkouts, logger))
			checkoutRoutes.POST("/place", handlers.HandlePlaceOrder(checkouts, orderClient, logger))
			checkoutRoutes.POST("/reset", handlers.HandleResetCheckout(checkouts, logger))
		}

		orderRoutes := v1.Group("/orders")
		{
			orderRoutes.GET("", handlers.HandleListOrders(orderStores, logger))
			orderRoutes.GET("/:id", handlers.HandleGetOrder(orderClient, logger))
			orderRoutes.GET("/number/:orderNumber", handlers.HandleGetOrderByNumber(orderClient, logger))
			orderRoutes.POST("/:id/cancel", handlers.HandleCancelOrder(orderStores, logger))
			orderRoutes.PUT("/:id/status", handlers.HandleUpdateOrderStatus(orderStores, logger))
			orderRoutes.GET("/:id/tracking", handlers.HandleGetOrderTracking(orderClient, logger))
		}
	}

	return router
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
		)
	}
}
