package checkout

import "github.com/novamart/storefront/internal/domain"

const (
	// Orders above this subtotal ship free.
	freeShippingThreshold = 50.0
	standardShippingFee   = 5.99
)

// TaxStrategy computes the tax amount for a subtotal. Rate and jurisdiction
// logic are external; implementations must return a non-negative amount.
type TaxStrategy func(subtotal float64) float64

// FlatTaxRate returns a TaxStrategy applying a single rate to the subtotal.
func FlatTaxRate(rate float64) TaxStrategy {
	return func(subtotal float64) float64 {
		if subtotal <= 0 {
			return 0
		}
		return subtotal * rate
	}
}

// ComputeSummary derives the order summary from a subtotal. It is a pure
// function; callers recompute on every subtotal change rather than caching.
func ComputeSummary(subtotal float64, tax TaxStrategy) domain.OrderSummary {
	shipping := standardShippingFee
	if subtotal > freeShippingThreshold {
		shipping = 0
	}

	taxAmount := 0.0
	if tax != nil {
		taxAmount = tax(subtotal)
		if taxAmount < 0 {
			taxAmount = 0
		}
	}

	return domain.OrderSummary{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      taxAmount,
		Total:    subtotal + shipping + taxAmount,
	}
}
