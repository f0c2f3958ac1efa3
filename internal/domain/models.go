package domain

import "time"

// ShippingInfo holds the address form state for one checkout session.
// All fields are required; validation rules live in the checkout package.
type ShippingInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode"`
	Country   string `json:"country"`
}

// OrderSummary is the derived subtotal/shipping/tax/total breakdown shown
// before payment. It is never set directly, only recomputed from the cart
// subtotal.
type OrderSummary struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// PaymentInfo is populated only after the payment adapter reports success.
// A non-empty PaymentIntentID is the signal that review may proceed to
// order placement.
type PaymentInfo struct {
	PaymentIntentID string `json:"paymentIntentId,omitempty"`
}

// Address is the normalized order address shape.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
	Phone   string `json:"phone,omitempty"`
}

// ProductSnapshot is the denormalized product embedded in an order item for
// display. It is a point-in-time copy, not a reference.
type ProductSnapshot struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"imageUrl,omitempty"`
}

// OrderItem is one line of an order. TotalPrice is computed server-side.
type OrderItem struct {
	ID         string          `json:"id"`
	ProductID  string          `json:"productId"`
	Product    ProductSnapshot `json:"product"`
	Quantity   int             `json:"quantity"`
	Price      float64         `json:"price"`
	TotalPrice float64         `json:"totalPrice"`
}

// Order is the local order shape. The remote order API is the source of
// truth; this is what its payloads normalize into.
type Order struct {
	ID                string        `json:"id"`
	UserID            string        `json:"userId"`
	OrderNumber       string        `json:"orderNumber"`
	Status            OrderStatus   `json:"status"`
	Items             []OrderItem   `json:"items"`
	Subtotal          float64       `json:"subtotal"`
	Tax               float64       `json:"tax"`
	Shipping          float64       `json:"shipping"`
	Discount          float64       `json:"discount"`
	Total             float64       `json:"total"`
	ShippingAddress   Address       `json:"shippingAddress"`
	BillingAddress    Address       `json:"billingAddress"`
	PaymentMethod     string        `json:"paymentMethod"`
	PaymentStatus     PaymentStatus `json:"paymentStatus"`
	Notes             string        `json:"notes,omitempty"`
	CreatedAt         time.Time     `json:"createdAt"`
	UpdatedAt         time.Time     `json:"updatedAt"`
	EstimatedDelivery *time.Time    `json:"estimatedDelivery,omitempty"`
	TrackingNumber    string        `json:"trackingNumber,omitempty"`
}

// Tracking is the shipment tracking metadata for an order.
type Tracking struct {
	TrackingNumber    string     `json:"trackingNumber,omitempty"`
	Status            string     `json:"status"`
	EstimatedDelivery *time.Time `json:"estimatedDelivery,omitempty"`
}

// CreateOrderRequestItem identifies one cart line in a create request.
type CreateOrderRequestItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// CreateOrderRequest is the payload submitted to the remote order API when
// checkout completes.
type CreateOrderRequest struct {
	Items           []CreateOrderRequestItem `json:"items"`
	ShippingAddress Address                  `json:"shippingAddress"`
	BillingAddress  *Address                 `json:"billingAddress,omitempty"`
	PaymentMethod   string                   `json:"paymentMethod"`
	Notes           string                   `json:"notes,omitempty"`
}
