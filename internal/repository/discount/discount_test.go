package discount

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
	"storefront/internal/repository/pgtest"
)

func TestPostgres_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewPostgres(pgtest.Pool(t), nil)

	now := time.Now()
	d, err := domain.NewDiscountCode(domain.DiscountInput{
		Code:           "FIVE",
		Type:           domain.DiscountFixed,
		Value:          decimal.NewFromInt(5),
		ExpirationDate: now.Add(24 * time.Hour),
	}, now)
	require.NoError(t, err)

	created, err := repo.Create(ctx, d)
	require.NoError(t, err)
	assert.True(t, created.IsActive)
	assert.True(t, decimal.NewFromInt(5).Equal(created.Value))

	_, err = repo.Create(ctx, d)
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	updated, err := repo.Update(ctx, created.Deactivate())
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	got, err := repo.GetByCode(ctx, "FIVE")
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, repo.Delete(ctx, "FIVE"))
	_, err = repo.GetByCode(ctx, "FIVE")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "FIVE"), domain.ErrNotFound)

	_, err = repo.Update(ctx, *created)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
