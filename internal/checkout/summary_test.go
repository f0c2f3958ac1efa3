package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeSummary_Shipping(t *testing.T) {
	tests := []struct {
		name             string
		subtotal         float64
		expectedShipping float64
	}{
		{name: "above_threshold_ships_free", subtotal: 60.00, expectedShipping: 0},
		{name: "below_threshold_pays_standard", subtotal: 30.00, expectedShipping: 5.99},
		{name: "exactly_threshold_pays_standard", subtotal: 50.00, expectedShipping: 5.99},
		{name: "just_above_threshold_ships_free", subtotal: 50.01, expectedShipping: 0},
		{name: "zero_subtotal", subtotal: 0, expectedShipping: 5.99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := ComputeSummary(tt.subtotal, nil)
			assert.Equal(t, tt.expectedShipping, summary.Shipping)
		})
	}
}

func TestComputeSummary_Total(t *testing.T) {
	tax := FlatTaxRate(0.08)

	summary := ComputeSummary(60.00, tax)
	assert.Equal(t, 60.00, summary.Subtotal)
	assert.Equal(t, 0.0, summary.Shipping)
	assert.InDelta(t, 4.80, summary.Tax, 0.001)
	assert.InDelta(t, 64.80, summary.Total, 0.001)

	summary = ComputeSummary(30.00, tax)
	assert.Equal(t, 30.00, summary.Subtotal)
	assert.Equal(t, 5.99, summary.Shipping)
	assert.InDelta(t, 2.40, summary.Tax, 0.001)
	assert.InDelta(t, 30.00+5.99+2.40, summary.Total, 0.001)
}

func TestComputeSummary_TaxStrategy(t *testing.T) {
	// A negative tax amount is clamped; the strategy contract is
	// non-negative but the calculator does not trust it.
	negative := func(subtotal float64) float64 { return -10 }
	summary := ComputeSummary(30.00, negative)
	assert.Equal(t, 0.0, summary.Tax)
	assert.InDelta(t, 35.99, summary.Total, 0.001)

	// Nil strategy means no tax.
	summary = ComputeSummary(30.00, nil)
	assert.Equal(t, 0.0, summary.Tax)
}

func TestFlatTaxRate_ZeroSubtotal(t *testing.T) {
	tax := FlatTaxRate(0.08)
	assert.Equal(t, 0.0, tax(0))
	assert.Equal(t, 0.0, tax(-5))
}
