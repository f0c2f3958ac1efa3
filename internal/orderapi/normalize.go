package orderapi

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/novamart/storefront/internal/domain"
)

// Backend wire shapes. The order API nests products and addresses and may
// omit either; normalization is total and never panics on a missing nested
// object.

type backendProduct struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"imageUrl"`
}

type backendOrderItem struct {
	ID         string          `json:"id"`
	ProductID  string          `json:"productId"`
	Product    *backendProduct `json:"product"`
	Quantity   int             `json:"quantity"`
	Price      float64         `json:"price"`
	TotalPrice float64         `json:"totalPrice"`
}

type backendAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
	Phone   string `json:"phone"`
}

type backendOrder struct {
	ID                string             `json:"id"`
	UserID            string             `json:"userId"`
	OrderNumber       string             `json:"orderNumber"`
	Status            string             `json:"status"`
	Items             []backendOrderItem `json:"items"`
	Subtotal          float64            `json:"subtotal"`
	Tax               float64            `json:"tax"`
	Shipping          float64            `json:"shipping"`
	Discount          float64            `json:"discount"`
	Total             float64            `json:"total"`
	ShippingAddress   *backendAddress    `json:"shippingAddress"`
	BillingAddress    *backendAddress    `json:"billingAddress"`
	PaymentMethod     string             `json:"paymentMethod"`
	PaymentStatus     string             `json:"paymentStatus"`
	Notes             string             `json:"notes"`
	CreatedAt         time.Time          `json:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt"`
	EstimatedDelivery *time.Time         `json:"estimatedDelivery"`
	TrackingNumber    string             `json:"trackingNumber"`
}

type backendTracking struct {
	TrackingNumber    string     `json:"trackingNumber"`
	Status            string     `json:"status"`
	EstimatedDelivery *time.Time `json:"estimatedDelivery"`
}

func (c *Client) normalizeOrder(b backendOrder) domain.Order {
	items := make([]domain.OrderItem, len(b.Items))
	for i, item := range b.Items {
		items[i] = normalizeItem(item)
	}

	order := domain.Order{
		ID:                b.ID,
		UserID:            b.UserID,
		OrderNumber:       b.OrderNumber,
		Status:            domain.OrderStatus(b.Status),
		Items:             items,
		Subtotal:          b.Subtotal,
		Tax:               b.Tax,
		Shipping:          b.Shipping,
		Discount:          b.Discount,
		Total:             b.Total,
		ShippingAddress:   normalizeAddress(b.ShippingAddress),
		BillingAddress:    normalizeAddress(b.BillingAddress),
		PaymentMethod:     b.PaymentMethod,
		PaymentStatus:     domain.PaymentStatus(b.PaymentStatus),
		Notes:             b.Notes,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
		EstimatedDelivery: b.EstimatedDelivery,
		TrackingNumber:    b.TrackingNumber,
	}

	// The server owns the total; a mismatch is logged, not rejected.
	expected := order.Subtotal + order.Tax + order.Shipping - order.Discount
	if math.Abs(expected-order.Total) > 0.01 {
		c.logger.Warn("Order total does not match its components",
			zap.String("order_id", order.ID),
			zap.Float64("total", order.Total),
			zap.Float64("expected", expected),
		)
	}

	return order
}

func normalizeItem(b backendOrderItem) domain.OrderItem {
	item := domain.OrderItem{
		ID:         b.ID,
		ProductID:  b.ProductID,
		Quantity:   b.Quantity,
		Price:      b.Price,
		TotalPrice: b.TotalPrice,
	}

	if b.Product != nil {
		item.Product = domain.ProductSnapshot{
			ID:       b.Product.ID,
			Name:     b.Product.Name,
			Price:    b.Product.Price,
			ImageURL: b.Product.ImageURL,
		}
	} else {
		// Missing product snapshot keeps the item usable for totals.
		item.Product = domain.ProductSnapshot{ID: b.ProductID, Price: b.Price}
	}

	return item
}

func normalizeAddress(b *backendAddress) domain.Address {
	if b == nil {
		return domain.Address{}
	}
	return domain.Address{
		Street:  b.Street,
		City:    b.City,
		State:   b.State,
		ZipCode: b.ZipCode,
		Country: b.Country,
		Phone:   b.Phone,
	}
}

func normalizeTracking(b backendTracking) domain.Tracking {
	return domain.Tracking{
		TrackingNumber:    b.TrackingNumber,
		Status:            b.Status,
		EstimatedDelivery: b.EstimatedDelivery,
	}
}
