package payment

import (
	"context"
	"errors"

	"storefront/internal/domain"
)

// ErrAlreadyPaid is returned by Settle when the payment was settled concurrently.
var ErrAlreadyPaid = errors.New("payment already settled")

// Repository persists and fetches payments.
type Repository interface {
	List(ctx context.Context) ([]domain.Payment, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Payment, error)
	GetByID(ctx context.Context, id string) (*domain.Payment, error)
	// Settle stores a paid payment over an unpaid one.
	Settle(ctx context.Context, p domain.Payment) (*domain.Payment, error)
}
