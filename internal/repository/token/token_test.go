package token

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
	"storefront/internal/repository/pgtest"
)

func TestPostgres_CreateGetDelete(t *testing.T) {
	ctx := context.Background()
	pool := pgtest.Pool(t)
	repo := NewPostgres(pool)
	customerID := pgtest.InsertCustomer(t, pool, "ann@example.com", "customer")

	tok := Token{Token: "abc", CustomerID: customerID, Kind: KindRefresh, ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, repo.Create(ctx, tok))
	assert.ErrorIs(t, repo.Create(ctx, tok), domain.ErrAlreadyExists)

	got, err := repo.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, customerID, got.CustomerID)
	assert.Equal(t, KindRefresh, got.Kind)

	require.NoError(t, repo.Delete(ctx, "abc"))
	assert.ErrorIs(t, repo.Delete(ctx, "abc"), domain.ErrNotFound)
	_, err = repo.Get(ctx, "abc")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPostgres_DeleteExpired(t *testing.T) {
	ctx := context.Background()
	pool := pgtest.Pool(t)
	repo := NewPostgres(pool)
	customerID := pgtest.InsertCustomer(t, pool, "ann@example.com", "customer")

	now := time.Now()
	require.NoError(t, repo.Create(ctx, Token{Token: "old", CustomerID: customerID, Kind: KindRefresh, ExpiresAt: now.Add(-time.Minute)}))
	require.NoError(t, repo.Create(ctx, Token{Token: "new", CustomerID: customerID, Kind: KindRefresh, ExpiresAt: now.Add(time.Hour)}))

	n, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = repo.Get(ctx, "new")
	assert.NoError(t, err)
}
