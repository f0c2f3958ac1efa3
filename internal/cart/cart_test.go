package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_AddMergesQuantity(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(Item{ProductID: "p1", Name: "Widget", Price: 10, Quantity: 1}))
	require.NoError(t, c.Add(Item{ProductID: "p1", Name: "Widget", Price: 10, Quantity: 2}))

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, 3, c.Count())
}

func TestCart_AddValidation(t *testing.T) {
	c := New()
	assert.Error(t, c.Add(Item{ProductID: "", Quantity: 1}))
	assert.Error(t, c.Add(Item{ProductID: "p1", Quantity: 0}))
	assert.Error(t, c.Add(Item{ProductID: "p1", Quantity: 1, Price: -1}))
	assert.Equal(t, 0, c.Count())
}

func TestCart_Subtotal(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(Item{ProductID: "p1", Name: "Widget", Price: 19.99, Quantity: 2}))
	require.NoError(t, c.Add(Item{ProductID: "p2", Name: "Gadget", Price: 5.00, Quantity: 1}))

	assert.InDelta(t, 44.98, c.Subtotal(), 0.001)
}

func TestCart_SetQuantity(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(Item{ProductID: "p1", Name: "Widget", Price: 10, Quantity: 2}))

	require.NoError(t, c.SetQuantity("p1", 5))
	assert.Equal(t, 5, c.Count())

	// Zero removes the line.
	require.NoError(t, c.SetQuantity("p1", 0))
	assert.Empty(t, c.Items())

	assert.Error(t, c.SetQuantity("missing", 1))
	assert.Error(t, c.SetQuantity("p1", -1))
}

func TestCart_RemoveAndClear(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(Item{ProductID: "p1", Name: "Widget", Price: 10, Quantity: 1}))
	require.NoError(t, c.Add(Item{ProductID: "p2", Name: "Gadget", Price: 5, Quantity: 1}))

	c.Remove("p1")
	assert.Len(t, c.Items(), 1)

	// Removing an absent product is a no-op.
	c.Remove("p1")
	assert.Len(t, c.Items(), 1)

	c.Clear()
	assert.Empty(t, c.Items())
	assert.Equal(t, 0.0, c.Subtotal())
}

func TestCart_ItemsReturnsCopy(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(Item{ProductID: "p1", Name: "Widget", Price: 10, Quantity: 1}))

	items := c.Items()
	items[0].Quantity = 99
	assert.Equal(t, 1, c.Count())
}
