package customer

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
	"storefront/internal/repository/pgtest"
)

func TestPostgres_CreateProvisionsCart(t *testing.T) {
	ctx := context.Background()
	pool := pgtest.Pool(t)
	repo := NewPostgres(pool, nil)

	c, err := repo.Create(ctx, domain.Customer{FirstName: "Ann", LastName: "Lee", Email: "Ann@Example.com", Password: "hash", Role: domain.RoleCustomer})
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", c.Email)
	assert.Equal(t, domain.RoleCustomer, c.Role)

	var carts int
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM carts WHERE customer_id = $1`, c.ID).Scan(&carts))
	assert.Equal(t, 1, carts)

	_, err = repo.Create(ctx, domain.Customer{FirstName: "A", LastName: "B", Email: "ANN@example.com", Password: "hash", Role: domain.RoleCustomer})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	got, err := repo.GetByEmail(ctx, "ann@EXAMPLE.com")
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)
	assert.Equal(t, "hash", got.Password)

	_, err = repo.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPostgres_UpdateAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewPostgres(pgtest.Pool(t), nil)

	c, err := repo.Create(ctx, domain.Customer{FirstName: "Ann", LastName: "Lee", Email: "ann@example.com", Password: "hash", Role: domain.RoleCustomer})
	require.NoError(t, err)

	c.LastName = "Park"
	c.Role = domain.RoleSalesman
	updated, err := repo.Update(ctx, *c)
	require.NoError(t, err)
	assert.Equal(t, "Park", updated.LastName)
	assert.Equal(t, domain.RoleSalesman, updated.Role)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, c.ID, list[0].ID)
}

func TestPostgres_DeleteRemovesCartThenCustomer(t *testing.T) {
	ctx := context.Background()
	pool := pgtest.Pool(t)
	repo := NewPostgres(pool, nil)

	c, err := repo.Create(ctx, domain.Customer{FirstName: "Ann", LastName: "Lee", Email: "ann@example.com", Password: "hash", Role: domain.RoleCustomer})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, c.ID))
	_, err = repo.GetByID(ctx, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	orphan := pgtest.InsertCustomer(t, pool, "nocart@example.com", "customer")
	assert.ErrorIs(t, repo.Delete(ctx, orphan), ErrCartMissing)
	_, err = repo.GetByID(ctx, orphan)
	assert.NoError(t, err)
}

func TestPostgres_DeleteReturnsReservedStock(t *testing.T) {
	ctx := context.Background()
	pool := pgtest.Pool(t)
	repo := NewPostgres(pool, nil)

	customerID := pgtest.InsertCustomer(t, pool, "ann@example.com", "customer")
	productID := pgtest.InsertProduct(t, pool, "Tee", "20.00", 7)
	// Three units sit in the cart, taken from a stock of ten.
	pgtest.InsertCart(t, pool, customerID, 3, productID)

	require.NoError(t, repo.Delete(ctx, customerID))

	var stock int
	require.NoError(t, pool.QueryRow(ctx, `SELECT stock FROM products WHERE id = $1`, productID).Scan(&stock))
	assert.Equal(t, 10, stock)
}

func TestPostgres_Wishlist(t *testing.T) {
	ctx := context.Background()
	pool := pgtest.Pool(t)
	repo := NewPostgres(pool, nil)

	customerID := pgtest.InsertCustomer(t, pool, "ann@example.com", "customer")
	productID := pgtest.InsertProduct(t, pool, "Cap", "12.50", 3)

	require.NoError(t, repo.AddWishlistItem(ctx, customerID, productID))
	assert.ErrorIs(t, repo.AddWishlistItem(ctx, customerID, productID), domain.ErrAlreadyExists)
	assert.ErrorIs(t, repo.AddWishlistItem(ctx, customerID, uuid.NewString()), domain.ErrNotFound)

	items, err := repo.Wishlist(ctx, customerID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Cap", items[0].Name)

	require.NoError(t, repo.RemoveWishlistItem(ctx, customerID, productID))
	assert.ErrorIs(t, repo.RemoveWishlistItem(ctx, customerID, productID), domain.ErrNotFound)
}
