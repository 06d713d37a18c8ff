package discount

import (
	"context"

	"storefront/internal/domain"
)

// Repository persists discount codes keyed by code.
type Repository interface {
	List(ctx context.Context) ([]domain.DiscountCode, error)
	GetByCode(ctx context.Context, code string) (*domain.DiscountCode, error)
	Create(ctx context.Context, d domain.DiscountCode) (*domain.DiscountCode, error)
	Update(ctx context.Context, d domain.DiscountCode) (*domain.DiscountCode, error)
	Delete(ctx context.Context, code string) error
}
