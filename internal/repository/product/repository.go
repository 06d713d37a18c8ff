package product

import (
	"context"

	"storefront/internal/domain"
)

// Repository persists and fetches catalog products.
type Repository interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Search(ctx context.Context, query string) ([]domain.Product, error)
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	// Update applies patch to the stored product in one transaction.
	Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	AddRating(ctx context.Context, id string, rating int) (*domain.Product, error)
	// Upsert inserts p, or overwrites the row with the same ID.
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
}
