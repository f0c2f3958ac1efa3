package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/novamart/storefront/internal/api/middleware"
	"github.com/novamart/storefront/internal/domain"
	"github.com/novamart/storefront/internal/orderapi"
	"github.com/novamart/storefront/internal/orders"
)

// CancelOrderRequest represents the cancel payload. Confirmed mirrors the
// confirmation prompt: an unconfirmed cancel is a no-op.
type CancelOrderRequest struct {
	Reason    string `json:"reason" binding:"required"`
	Confirmed bool   `json:"confirmed"`
}

// UpdateStatusRequest represents the employee/admin status change payload
type UpdateStatusRequest struct {
	Status domain.OrderStatus `json:"status" binding:"required"`
}

// HandleListOrders handles GET /v1/orders. The first call fetches; later
// calls serve the optimistic cache unless refresh=true forces a refetch.
func HandleListOrders(stores *orders.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		store := stores.Store(userID)
		if store.State() == orders.LoadStateInitial || c.Query("refresh") == "true" {
			store.Refresh(c.Request.Context())
		}

		c.JSON(http.StatusOK, gin.H{
			"orders": store.Orders(),
			"state":  store.State(),
		})
	}
}

// HandleGetOrder handles GET /v1/orders/:id
func HandleGetOrder(client *orderapi.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		order, err := client.GetOrderByID(c.Request.Context(), c.Param("id"), userID)
		if err != nil {
			logger.Error("Failed to get order", zap.String("order_id", c.Param("id")), zap.Error(err))
			writeOrderAPIError(c, err)
			return
		}
		if order == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}

		c.JSON(http.StatusOK, order)
	}
}

// HandleGetOrderByNumber handles GET /v1/orders/number/:orderNumber
func HandleGetOrderByNumber(client *orderapi.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := middleware.GetUserFromContext(c); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		order, err := client.GetOrderByNumber(c.Request.Context(), c.Param("orderNumber"))
		if err != nil {
			logger.Error("Failed to get order by number",
				zap.String("order_number", c.Param("orderNumber")), zap.Error(err))
			writeOrderAPIError(c, err)
			return
		}
		if order == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}

		c.JSON(http.StatusOK, order)
	}
}

// HandleCancelOrder handles POST /v1/orders/:id/cancel
func HandleCancelOrder(stores *orders.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req CancelOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}
		if !req.Confirmed {
			c.JSON(http.StatusOK, gin.H{"cancelled": false, "confirmation_required": true})
			return
		}

		store := stores.Store(userID)
		if err := store.Cancel(c.Request.Context(), c.Param("id"), req.Reason); err != nil {
			writeOrderAPIError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"cancelled": true,
			"orders":    store.Orders(),
		})
	}
}

// HandleUpdateOrderStatus handles PUT /v1/orders/:id/status
func HandleUpdateOrderStatus(stores *orders.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req UpdateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}
		if !req.Status.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order status"})
			return
		}

		store := stores.Store(userID)
		if err := store.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
			if errors.Is(err, orders.ErrInvalidTransition) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			writeOrderAPIError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"updated": true,
			"orders":  store.Orders(),
		})
	}
}

// HandleGetOrderTracking handles GET /v1/orders/:id/tracking
func HandleGetOrderTracking(client *orderapi.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := middleware.GetUserFromContext(c); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		tracking, err := client.GetOrderTracking(c.Request.Context(), c.Param("id"))
		if err != nil {
			logger.Error("Failed to get order tracking",
				zap.String("order_id", c.Param("id")), zap.Error(err))
			writeOrderAPIError(c, err)
			return
		}

		c.JSON(http.StatusOK, tracking)
	}
}
