package customer

import (
	"context"
	"errors"

	"storefront/internal/domain"
)

// ErrCartMissing is returned by Delete when the customer has no cart.
var ErrCartMissing = errors.New("customer has no cart")

// Repository persists and fetches customers. Customer.Password holds the
// password hash on both directions.
type Repository interface {
	// Create inserts c together with its empty cart.
	Create(ctx context.Context, c domain.Customer) (*domain.Customer, error)
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	List(ctx context.Context) ([]domain.Customer, error)
	Update(ctx context.Context, c domain.Customer) (*domain.Customer, error)
	// Delete removes the customer's cart, then the customer.
	Delete(ctx context.Context, id string) error

	Wishlist(ctx context.Context, customerID string) ([]domain.Product, error)
	AddWishlistItem(ctx context.Context, customerID, productID string) error
	RemoveWishlistItem(ctx context.Context, customerID, productID string) error
}
