package cart

import (
	"fmt"
	"sync"
)

// Item is one cart line. Price is the unit price snapshot taken when the
// item was added.
type Item struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Cart holds the line items for one user session. It is the source of truth
// for the checkout subtotal. All methods are safe for concurrent use.
type Cart struct {
	mu    sync.Mutex
	items []Item
}

func New() *Cart {
	return &Cart{}
}

// Add puts an item in the cart, merging quantity with an existing line for
// the same product.
func (c *Cart) Add(item Item) error {
	if item.ProductID == "" {
		return fmt.Errorf("cart: product id is required")
	}
	if item.Quantity <= 0 {
		return fmt.Errorf("cart: quantity must be greater than zero")
	}
	if item.Price < 0 {
		return fmt.Errorf("cart: price cannot be negative")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ProductID == item.ProductID {
			c.items[i].Quantity += item.Quantity
			return nil
		}
	}
	c.items = append(c.items, item)
	return nil
}

// SetQuantity updates a line's quantity. Zero removes the line.
func (c *Cart) SetQuantity(productID string, quantity int) error {
	if quantity < 0 {
		return fmt.Errorf("cart: quantity cannot be negative")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ProductID == productID {
			if quantity == 0 {
				c.items = append(c.items[:i], c.items[i+1:]...)
			} else {
				c.items[i].Quantity = quantity
			}
			return nil
		}
	}
	return fmt.Errorf("cart: product %s not in cart", productID)
}

// Remove deletes a line from the cart.
func (c *Cart) Remove(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ProductID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}

// Items returns a copy of the cart lines.
func (c *Cart) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]Item, len(c.items))
	copy(items, c.items)
	return items
}

// Count returns the total quantity across all lines.
func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for _, item := range c.items {
		count += item.Quantity
	}
	return count
}

// Subtotal returns the sum of price*quantity across all lines.
func (c *Cart) Subtotal() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	subtotal := 0.0
	for _, item := range c.items {
		subtotal += item.Price * float64(item.Quantity)
	}
	return subtotal
}
