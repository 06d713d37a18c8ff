package domain_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
)

func TestOrderFromCart_PaymentMatchesTotal(t *testing.T) {
	p := cartProduct(t, "p1", "20", 10)
	c, err := domain.NewCart("cust-1", nil)
	require.NoError(t, err)
	c, err = c.AddItem(p, 2)
	require.NoError(t, err)

	now := time.Now()
	items := domain.OrderItemsFromCart(c)
	pay, err := domain.NewPayment(c.TotalAmount, now, domain.PaymentPaid)
	require.NoError(t, err)

	o, err := domain.NewOrder(domain.OrderInput{CustomerID: "cust-1", Items: items, Date: now, Payment: pay})
	require.NoError(t, err)
	require.Len(t, o.Items, 1)
	assert.Equal(t, "p1", o.Items[0].ProductID)
	assert.True(t, decimal.NewFromInt(40).Equal(o.Total()))
	assert.True(t, decimal.NewFromInt(40).Equal(o.Payment.Amount))
}

func TestNewOrder_Invalid(t *testing.T) {
	now := time.Now()
	item := domain.OrderItem{ProductID: "p1", ProductName: "Tee", UnitPrice: decimal.NewFromInt(20), Quantity: 2}
	pay, err := domain.NewPayment(decimal.NewFromInt(40), now, domain.PaymentUnpaid)
	require.NoError(t, err)

	_, err = domain.NewOrder(domain.OrderInput{Items: []domain.OrderItem{item}, Date: now, Payment: pay})
	assert.EqualError(t, err, "Order must belong to a customer")

	_, err = domain.NewOrder(domain.OrderInput{CustomerID: "c", Date: now, Payment: pay})
	assert.EqualError(t, err, "Order must contain at least one item")

	wrong, err := domain.NewPayment(decimal.NewFromInt(39), now, domain.PaymentUnpaid)
	require.NoError(t, err)
	_, err = domain.NewOrder(domain.OrderInput{CustomerID: "c", Items: []domain.OrderItem{item}, Date: now, Payment: wrong})
	assert.EqualError(t, err, "Payment amount must equal the order total")
}

func TestNewOrder_WithDiscount(t *testing.T) {
	now := time.Now()
	item := domain.OrderItem{ProductID: "p1", ProductName: "Tee", UnitPrice: decimal.NewFromInt(20), Quantity: 2}
	pay, err := domain.NewPayment(decimal.NewFromInt(35), now, domain.PaymentPaid)
	require.NoError(t, err)

	o, err := domain.NewOrder(domain.OrderInput{
		CustomerID:     "c",
		Items:          []domain.OrderItem{item},
		Date:           now,
		Payment:        pay,
		DiscountCode:   "FIVE",
		DiscountAmount: decimal.NewFromInt(5),
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(40).Equal(o.Subtotal()))
	assert.True(t, decimal.NewFromInt(35).Equal(o.Total()))
}

func TestPayment_Validation(t *testing.T) {
	now := time.Now()

	_, err := domain.NewPayment(decimal.NewFromInt(-1), now, domain.PaymentPaid)
	assert.EqualError(t, err, "Payment amount cannot be negative")

	_, err = domain.NewPayment(decimal.NewFromInt(1), now, "")
	assert.EqualError(t, err, "Payment status is required")

	_, err = domain.NewPayment(decimal.NewFromInt(1), now, "pending")
	assert.EqualError(t, err, `Invalid payment status: "pending"`)
}

func TestPayment_MarkPaid(t *testing.T) {
	now := time.Now()
	p, err := domain.NewPayment(decimal.NewFromInt(40), now, domain.PaymentUnpaid)
	require.NoError(t, err)
	p.ID, p.OrderID = "pay-1", "ord-1"

	paid, err := p.MarkPaid(decimal.NewFromInt(40), now)
	require.NoError(t, err)
	assert.True(t, paid.IsPaid())
	assert.Equal(t, "pay-1", paid.ID)
	assert.Equal(t, "ord-1", paid.OrderID)

	_, err = paid.MarkPaid(decimal.NewFromInt(40), now)
	assert.EqualError(t, err, "Order is already paid")
}

func TestOrder_BelongsTo(t *testing.T) {
	o := domain.Order{CustomerID: "c1", CustomerEmail: "a@b.com"}
	assert.True(t, o.BelongsTo("c1"))
	assert.False(t, o.BelongsTo("c2"))
	assert.False(t, o.BelongsTo("a@b.com"))
	assert.False(t, domain.Order{}.BelongsTo(""))
}
