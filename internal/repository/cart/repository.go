package cart

import (
	"context"
	"errors"

	"storefront/internal/domain"
)

// ErrProductMissing is returned by AddItem when the product does not exist.
var ErrProductMissing = errors.New("product not found")

// Repository persists and fetches carts with their items.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Cart, error)
	GetByCustomer(ctx context.Context, customerID string) (*domain.Cart, error)
	List(ctx context.Context) ([]domain.Cart, error)
	// AddItem merges quantity units of productID into the cart and takes them
	// from the product's stock. Cart and product rows are locked for the
	// duration of the change.
	AddItem(ctx context.Context, cartID, productID string, quantity int) (*domain.Cart, error)
	// RemoveItem takes quantity units of productID off the cart and returns
	// them to stock.
	RemoveItem(ctx context.Context, cartID, productID string, quantity int) (*domain.Cart, error)
}
