package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
)

func cartProduct(t *testing.T, id, price string, stock int) domain.Product {
	t.Helper()
	in := validProductInput()
	in.Price = decimal.RequireFromString(price)
	in.Stock = stock
	p, err := domain.NewProduct(in)
	require.NoError(t, err)
	p.ID = id
	return p
}

func TestNewCart_RequiresCustomer(t *testing.T) {
	_, err := domain.NewCart(" ", nil)
	assert.EqualError(t, err, "Cart must belong to a customer")

	c, err := domain.NewCart("cust-1", nil)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
	assert.True(t, c.TotalAmount.IsZero())
}

func TestCart_AddSameProductMergesLine(t *testing.T) {
	p := cartProduct(t, "p1", "20", 10)
	c, err := domain.NewCart("cust-1", nil)
	require.NoError(t, err)

	c, err = c.AddItem(p, 2)
	require.NoError(t, err)
	c, err = c.AddItem(p, 3)
	require.NoError(t, err)

	require.Len(t, c.Items, 1)
	assert.Equal(t, 5, c.Items[0].Quantity)
	assert.True(t, decimal.NewFromInt(100).Equal(c.TotalAmount))
}

func TestCart_AddItemValidation(t *testing.T) {
	p := cartProduct(t, "p1", "20", 2)
	c, err := domain.NewCart("cust-1", nil)
	require.NoError(t, err)

	_, err = c.AddItem(p, 0)
	assert.EqualError(t, err, "Quantity must be greater than 0")

	_, err = c.AddItem(p, 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Insufficient stock")
}

func TestCart_RemoveMoreThanPresentLeavesCartUnchanged(t *testing.T) {
	p := cartProduct(t, "p1", "20", 10)
	c, err := domain.NewCart("cust-1", nil)
	require.NoError(t, err)
	c, err = c.AddItem(p, 2)
	require.NoError(t, err)

	after, err := c.RemoveItem("p1", 3)
	require.Error(t, err)
	assert.Equal(t, "Cannot remove 3 items: only 2 in cart", err.Error())
	assert.Equal(t, 2, after.Quantity("p1"))
	assert.Equal(t, 2, c.Quantity("p1"))
	assert.True(t, decimal.NewFromInt(40).Equal(c.TotalAmount))
}

func TestCart_RemoveExactQuantityDropsLine(t *testing.T) {
	p1 := cartProduct(t, "p1", "20", 10)
	p2 := cartProduct(t, "p2", "5.50", 10)
	c, err := domain.NewCart("cust-1", nil)
	require.NoError(t, err)
	c, err = c.AddItem(p1, 2)
	require.NoError(t, err)
	c, err = c.AddItem(p2, 1)
	require.NoError(t, err)

	partial, err := c.RemoveItem("p1", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, partial.Quantity("p1"))
	assert.True(t, decimal.RequireFromString("25.50").Equal(partial.TotalAmount))

	c, err = c.RemoveItem("p1", 2)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, "p2", c.Items[0].Product.ID)
	assert.True(t, decimal.RequireFromString("5.50").Equal(c.TotalAmount))
}

func TestCart_RemoveUnknownProduct(t *testing.T) {
	c, err := domain.NewCart("cust-1", nil)
	require.NoError(t, err)

	_, err = c.RemoveItem("missing", 1)
	assert.EqualError(t, err, "Product not found in cart")
}
