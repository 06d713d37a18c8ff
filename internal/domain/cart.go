package domain

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is a product line in a cart.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Subtotal is unit price times quantity.
func (i CartItem) Subtotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is a customer's pre-order collection of line items.
// TotalAmount is derived and recomputed on every change.
type Cart struct {
	ID          string          `json:"id"`
	CustomerID  string          `json:"customerId"`
	Items       []CartItem      `json:"items"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// NewCart builds a cart owned by customerID holding items.
func NewCart(customerID string, items []CartItem) (Cart, error) {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return Cart{}, Validationf("Cart must belong to a customer")
	}
	for _, it := range items {
		if it.Quantity <= 0 {
			return Cart{}, Validationf("Quantity must be greater than 0")
		}
	}
	c := Cart{CustomerID: customerID, Items: slices.Clone(items)}
	if c.Items == nil {
		c.Items = []CartItem{}
	}
	c.TotalAmount = c.computeTotal()
	return c, nil
}

// IsEmpty reports whether the cart has no items.
func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Quantity returns how many units of productID are in the cart.
func (c Cart) Quantity(productID string) int {
	if i := c.indexOf(productID); i >= 0 {
		return c.Items[i].Quantity
	}
	return 0
}

// AddItem adds quantity units of product, merging into an existing line.
// The added quantity may not exceed the product's available stock.
func (c Cart) AddItem(product Product, quantity int) (Cart, error) {
	if quantity <= 0 {
		return c, Validationf("Quantity must be greater than 0")
	}
	if quantity > product.Stock {
		return c, Validationf("Insufficient stock for product %s: available %d, requested %d", product.Name, product.Stock, quantity)
	}

	out := c
	out.Items = slices.Clone(c.Items)
	if i := out.indexOf(product.ID); i >= 0 {
		out.Items[i].Quantity += quantity
		out.Items[i].Product = product
	} else {
		out.Items = append(out.Items, CartItem{Product: product, Quantity: quantity})
	}
	out.TotalAmount = out.computeTotal()
	return out, nil
}

// RemoveItem removes quantity units of productID. Removing the full
// quantity drops the line.
func (c Cart) RemoveItem(productID string, quantity int) (Cart, error) {
	if quantity <= 0 {
		return c, Validationf("Quantity must be greater than 0")
	}
	i := c.indexOf(productID)
	if i < 0 {
		return c, Validationf("Product not found in cart")
	}
	if have := c.Items[i].Quantity; quantity > have {
		return c, Validationf("Cannot remove %d items: only %d in cart", quantity, have)
	}

	out := c
	out.Items = slices.Clone(c.Items)
	out.Items[i].Quantity -= quantity
	if out.Items[i].Quantity == 0 {
		out.Items = slices.Delete(out.Items, i, i+1)
	}
	out.TotalAmount = out.computeTotal()
	return out, nil
}

func (c Cart) indexOf(productID string) int {
	return slices.IndexFunc(c.Items, func(it CartItem) bool { return it.Product.ID == productID })
}

func (c Cart) computeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.Subtotal())
	}
	return total.Round(2)
}
