package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/novamart/storefront/internal/api/middleware"
	"github.com/novamart/storefront/internal/checkout"
	"github.com/novamart/storefront/internal/domain"
	"github.com/novamart/storefront/internal/orderapi"
	"github.com/novamart/storefront/internal/payment"
)

// ShippingRequest represents the address form submission
type ShippingRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
	Address   string `json:"address" binding:"required"`
	City      string `json:"city" binding:"required"`
	State     string `json:"state" binding:"required"`
	ZipCode   string `json:"zip_code" binding:"required"`
	Country   string `json:"country" binding:"required"`
}

// ShippingFieldRequest represents a single field edit; phone and ZIP come
// back normalized, mirroring the form's on-keystroke formatters.
type ShippingFieldRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

// PaymentRequest represents the payment step submission
type PaymentRequest struct {
	CardNumber string `json:"card_number" binding:"required"`
	ExpMonth   int    `json:"exp_month" binding:"required,min=1,max=12"`
	ExpYear    int    `json:"exp_year" binding:"required"`
	CVC        string `json:"cvc" binding:"required"`
}

// PlaceOrderRequest represents the final order placement
type PlaceOrderRequest struct {
	PaymentMethod  string          `json:"payment_method"`
	Notes          string          `json:"notes,omitempty"`
	BillingAddress *domain.Address `json:"billing_address,omitempty"`
}

func checkoutState(s *checkout.Session) gin.H {
	step, err := s.Step()
	state := gin.H{
		"session_id":        s.ID().String(),
		"step":              step,
		"summary":           s.Summary(),
		"shipping":          s.ShippingInfo(),
		"payment_confirmed": s.PaymentInfo().PaymentIntentID != "",
	}
	if errors.Is(err, checkout.ErrCartEmpty) {
		state["redirect"] = "cart"
	}
	return state
}

// HandleGetCheckout handles GET /v1/checkout
func HandleGetCheckout(checkouts *checkout.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.JSON(http.StatusOK, checkoutState(checkouts.Session(userID)))
	}
}

// HandleSubmitShipping handles POST /v1/checkout/shipping
func HandleSubmitShipping(checkouts *checkout.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req ShippingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		session := checkouts.Session(userID)
		err := session.SubmitShipping(domain.ShippingInfo{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
			Phone:     req.Phone,
			Address:   req.Address,
			City:      req.City,
			State:     req.State,
			ZipCode:   req.ZipCode,
			Country:   req.Country,
		})
		if err != nil {
			var vErr *checkout.ValidationError
			switch {
			case errors.As(err, &vErr):
				c.JSON(http.StatusUnprocessableEntity, gin.H{
					"error":  "validation failed",
					"fields": vErr.Fields,
				})
			case errors.Is(err, checkout.ErrCartEmpty):
				c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "redirect": "cart"})
			default:
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			}
			return
		}

		c.JSON(http.StatusOK, checkoutState(session))
	}
}

// HandleSetShippingField handles PATCH /v1/checkout/shipping
func HandleSetShippingField(checkouts *checkout.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req ShippingFieldRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		session := checkouts.Session(userID)
		session.SetShippingField(req.Field, req.Value)
		c.JSON(http.StatusOK, gin.H{"shipping": session.ShippingInfo()})
	}
}

// HandleSubmitPayment handles POST /v1/checkout/payment
func HandleSubmitPayment(checkouts *checkout.Manager, adapter *payment.Adapter, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req PaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		session := checkouts.Session(userID)
		if step, err := session.Step(); err != nil || step != checkout.StepPayment {
			if errors.Is(err, checkout.ErrCartEmpty) {
				c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "redirect": "cart"})
				return
			}
			c.JSON(http.StatusConflict, gin.H{"error": "checkout is not on the payment step"})
			return
		}

		// The summary is recomputed here, never cached, so the adapter sees
		// settled totals.
		amount := session.Summary().Total
		intentID, err := adapter.Confirm(c.Request.Context(), amount, payment.CardDetails{
			Number:   req.CardNumber,
			ExpMonth: req.ExpMonth,
			ExpYear:  req.ExpYear,
			CVC:      req.CVC,
		})
		if err != nil {
			session.FailPayment(err)
			c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
			return
		}

		if err := session.ConfirmPayment(intentID); err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, checkoutState(session))
	}
}

// HandleAdvanceStep handles POST /v1/checkout/advance
func HandleAdvanceStep(checkouts *checkout.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		session := checkouts.Session(userID)
		if _, err := session.Advance(); err != nil {
			if errors.Is(err, checkout.ErrCartEmpty) {
				c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "redirect": "cart"})
				return
			}
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, checkoutState(session))
	}
}

// HandleBackStep handles POST /v1/checkout/back
func HandleBackStep(checkouts *checkout.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		session := checkouts.Session(userID)
		if _, err := session.Back(); err != nil {
			if errors.Is(err, checkout.ErrCartEmpty) {
				c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "redirect": "cart"})
				return
			}
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, checkoutState(session))
	}
}

// HandlePlaceOrder handles POST /v1/checkout/place
func HandlePlaceOrder(checkouts *checkout.Manager, client *orderapi.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req PlaceOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}
		if req.PaymentMethod == "" {
			req.PaymentMethod = "card"
		}

		session := checkouts.Session(userID)
		if err := session.BeginPlacement(); err != nil {
			switch {
			case errors.Is(err, checkout.ErrInFlight):
				c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
			case errors.Is(err, checkout.ErrCartEmpty):
				c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "redirect": "cart"})
			default:
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			}
			return
		}

		shipping := session.ShippingInfo()
		items := make([]domain.CreateOrderRequestItem, 0, len(session.Cart().Items()))
		for _, item := range session.Cart().Items() {
			items = append(items, domain.CreateOrderRequestItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
			})
		}

		order, err := client.CreateOrder(c.Request.Context(), domain.CreateOrderRequest{
			Items: items,
			ShippingAddress: domain.Address{
				Street:  shipping.Address,
				City:    shipping.City,
				State:   shipping.State,
				ZipCode: shipping.ZipCode,
				Country: shipping.Country,
				Phone:   shipping.Phone,
			},
			BillingAddress: req.BillingAddress,
			PaymentMethod:  req.PaymentMethod,
			Notes:          req.Notes,
		})
		if err != nil {
			// No partial order is kept; the user may re-submit.
			session.AbortPlacement()
			logger.Error("Failed to place order", zap.String("user_id", userID), zap.Error(err))
			writeOrderAPIError(c, err)
			return
		}

		session.Complete(order.ID)
		c.JSON(http.StatusCreated, gin.H{
			"order": order,
			"step":  checkout.StepComplete,
		})
	}
}

// HandleResetCheckout handles POST /v1/checkout/reset
func HandleResetCheckout(checkouts *checkout.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		session := checkouts.Session(userID)
		session.Reset()
		c.JSON(http.StatusOK, checkoutState(session))
	}
}

// writeOrderAPIError maps order API failures onto the response per the error
// taxonomy: auth errors ask for re-login, backend errors surface the
// backend's message, anything else is generic.
func writeOrderAPIError(c *gin.Context, err error) {
	var apiErr *orderapi.APIError
	switch {
	case errors.Is(err, orderapi.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "your session has expired, please sign in again"})
	case errors.As(err, &apiErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": apiErr.Error()})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": "something went wrong, please try again"})
	}
}
