package domain

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem is a snapshot of a cart line taken when the order was placed.
type OrderItem struct {
	ID          string          `json:"id"`
	OrderID     string          `json:"orderId"`
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Quantity    int             `json:"quantity"`
}

// Subtotal is unit price times quantity.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is an immutable snapshot of a cart plus its payment.
type Order struct {
	ID             string          `json:"id"`
	CustomerID     string          `json:"customerId"`
	CustomerEmail  string          `json:"customerEmail,omitempty"`
	Items          []OrderItem     `json:"items"`
	Date           time.Time       `json:"date"`
	Payment        Payment         `json:"payment"`
	DiscountCode   string          `json:"discountCode,omitempty"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
}

// OrderInput carries the fields needed to build an Order.
type OrderInput struct {
	CustomerID     string
	CustomerEmail  string
	Items          []OrderItem
	Date           time.Time
	Payment        Payment
	DiscountCode   string
	DiscountAmount decimal.Decimal
}

// NewOrder validates in and returns the order it describes. The payment
// amount must equal the order total.
func NewOrder(in OrderInput) (Order, error) {
	o := Order{
		CustomerID:     strings.TrimSpace(in.CustomerID),
		CustomerEmail:  in.CustomerEmail,
		Items:          slices.Clone(in.Items),
		Date:           in.Date,
		Payment:        in.Payment,
		DiscountCode:   in.DiscountCode,
		DiscountAmount: in.DiscountAmount.Round(2),
	}
	if o.CustomerID == "" {
		return Order{}, Validationf("Order must belong to a customer")
	}
	if len(o.Items) == 0 {
		return Order{}, Validationf("Order must contain at least one item")
	}
	for _, it := range o.Items {
		if it.Quantity <= 0 {
			return Order{}, Validationf("Quantity must be greater than 0")
		}
		if !it.UnitPrice.IsPositive() {
			return Order{}, Validationf("Price must be greater than 0")
		}
	}
	if o.Date.IsZero() {
		return Order{}, Validationf("Order date is required")
	}
	if o.DiscountAmount.IsNegative() {
		return Order{}, Validationf("Discount cannot be negative")
	}
	if o.DiscountAmount.GreaterThan(o.Subtotal()) {
		return Order{}, Validationf("Discount cannot exceed the order subtotal")
	}
	if !o.Payment.Amount.Equal(o.Total()) {
		return Order{}, Validationf("Payment amount must equal the order total")
	}
	return o, nil
}

// OrderItemsFromCart snapshots the cart lines as order items.
func OrderItemsFromCart(cart Cart) []OrderItem {
	items := make([]OrderItem, 0, len(cart.Items))
	for _, it := range cart.Items {
		items = append(items, OrderItem{
			ProductID:   it.Product.ID,
			ProductName: it.Product.Name,
			UnitPrice:   it.Product.Price,
			Quantity:    it.Quantity,
		})
	}
	return items
}

// Subtotal is the sum of item subtotals before discount.
func (o Order) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.Subtotal())
	}
	return total.Round(2)
}

// Total is the subtotal minus discount, never below zero.
func (o Order) Total() decimal.Decimal {
	total := o.Subtotal().Sub(o.DiscountAmount)
	if total.IsNegative() {
		return decimal.Zero
	}
	return total.Round(2)
}

// BelongsTo reports whether the order was placed by customerID. The
// order's customer email is read from that customer's current record, so
// matching on the id is the same as matching on their email.
func (o Order) BelongsTo(customerID string) bool {
	return o.CustomerID != "" && o.CustomerID == customerID
}
