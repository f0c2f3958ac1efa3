package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/novamart/storefront/internal/api/middleware"
	"github.com/novamart/storefront/internal/cart"
	"github.com/novamart/storefront/internal/checkout"
)

// AddItemRequest represents the add-to-cart payload
type AddItemRequest struct {
	ProductID string  `json:"product_id" binding:"required"`
	Name      string  `json:"name" binding:"required"`
	Price     float64 `json:"price" binding:"min=0"`
	Quantity  int     `json:"quantity" binding:"required,min=1"`
}

// SetQuantityRequest represents the quantity update payload
type SetQuantityRequest struct {
	Quantity int `json:"quantity" binding:"min=0"`
}

func cartState(s *checkout.Session) gin.H {
	return gin.H{
		"items":    s.Cart().Items(),
		"count":    s.Cart().Count(),
		"subtotal": s.Cart().Subtotal(),
		"summary":  s.Summary(),
	}
}

// HandleGetCart handles GET /v1/cart
func HandleGetCart(checkouts *checkout.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.JSON(http.StatusOK, cartState(checkouts.Session(userID)))
	}
}

// HandleAddCartItem handles POST /v1/cart/items
func HandleAddCartItem(checkouts *checkout.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req AddItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		session := checkouts.Session(userID)
		if err := session.Cart().Add(cart.Item{
			ProductID: req.ProductID,
			Name:      req.Name,
			Price:     req.Price,
			Quantity:  req.Quantity,
		}); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, cartState(session))
	}
}

// HandleSetCartItemQuantity handles PUT /v1/cart/items/:productId
func HandleSetCartItemQuantity(checkouts *checkout.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req SetQuantityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		session := checkouts.Session(userID)
		if err := session.Cart().SetQuantity(c.Param("productId"), req.Quantity); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, cartState(session))
	}
}

// HandleRemoveCartItem handles DELETE /v1/cart/items/:productId
func HandleRemoveCartItem(checkouts *checkout.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		session := checkouts.Session(userID)
		session.Cart().Remove(c.Param("productId"))
		c.JSON(http.StatusOK, cartState(session))
	}
}

// HandleClearCart handles DELETE /v1/cart
func HandleClearCart(checkouts *checkout.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		session := checkouts.Session(userID)
		session.Cart().Clear()
		c.JSON(http.StatusOK, cartState(session))
	}
}
