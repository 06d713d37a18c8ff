package order

import (
	"context"
	"errors"

	"storefront/internal/domain"
)

// ErrCartChanged is returned by CreateFromCart when the stored cart no longer
// holds the items the order was built from.
var ErrCartChanged = errors.New("cart changed since the order was built")

// Repository persists and fetches orders with their items and payment.
type Repository interface {
	// CreateFromCart stores o, deletes the cart it was built from and gives the
	// customer a fresh empty cart, all in one transaction. It fails with
	// domain.ErrNotFound when the cart no longer exists and ErrCartChanged when
	// its items differ from o's.
	CreateFromCart(ctx context.Context, o domain.Order, cartID string) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	// ListByCustomer returns the newest orders first; limit <= 0 means all.
	ListByCustomer(ctx context.Context, customerID string, limit int) ([]domain.Order, error)
	Delete(ctx context.Context, id string) error
}
