package order

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
	"storefront/internal/repository/pgtest"
)

func buildOrder(t *testing.T, customerID, productID string, date time.Time) domain.Order {
	t.Helper()
	items := []domain.OrderItem{{ProductID: productID, ProductName: "Tee", UnitPrice: decimal.NewFromInt(20), Quantity: 2}}
	pay, err := domain.NewPayment(decimal.NewFromInt(35), date, domain.PaymentPaid)
	require.NoError(t, err)
	o, err := domain.NewOrder(domain.OrderInput{
		CustomerID:     customerID,
		Items:          items,
		Date:           date,
		Payment:        pay,
		DiscountCode:   "FIVE",
		DiscountAmount: decimal.NewFromInt(5),
	})
	require.NoError(t, err)
	return o
}

func TestPostgres_CreateFromCartIsAtomic(t *testing.T) {
	ctx := context.Background()
	pool := pgtest.Pool(t)
	repo := NewPostgres(pool, nil)

	customerID := pgtest.InsertCustomer(t, pool, "ann@example.com", "customer")
	productID := pgtest.InsertProduct(t, pool, "Tee", "20.00", 5)
	cartID := pgtest.InsertCart(t, pool, customerID, 2, productID)

	created, err := repo.CreateFromCart(ctx, buildOrder(t, customerID, productID, time.Now()), cartID)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", created.CustomerEmail)
	require.Len(t, created.Items, 1)
	assert.Equal(t, productID, created.Items[0].ProductID)
	assert.Equal(t, created.ID, created.Payment.OrderID)
	assert.True(t, decimal.NewFromInt(35).Equal(created.Payment.Amount))
	assert.True(t, decimal.NewFromInt(35).Equal(created.Total()))

	var newCartID string
	require.NoError(t, pool.QueryRow(ctx, `SELECT id::text FROM carts WHERE customer_id = $1`, customerID).Scan(&newCartID))
	assert.NotEqual(t, cartID, newCartID)

	_, err = repo.CreateFromCart(ctx, buildOrder(t, customerID, productID, time.Now()), cartID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	var orders int
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM orders`).Scan(&orders))
	assert.Equal(t, 1, orders)
}

func TestPostgres_CreateFromCartRejectsChangedCart(t *testing.T) {
	ctx := context.Background()
	pool := pgtest.Pool(t)
	repo := NewPostgres(pool, nil)

	customerID := pgtest.InsertCustomer(t, pool, "ann@example.com", "customer")
	teeID := pgtest.InsertProduct(t, pool, "Tee", "20.00", 5)
	capID := pgtest.InsertProduct(t, pool, "Cap", "10.00", 5)
	// A line for cap was added after the order was built from a cart holding only tees.
	cartID := pgtest.InsertCart(t, pool, customerID, 2, teeID, capID)

	_, err := repo.CreateFromCart(ctx, buildOrder(t, customerID, teeID, time.Now()), cartID)
	assert.ErrorIs(t, err, ErrCartChanged)

	var lines, orders int
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM cart_items WHERE cart_id = $1`, cartID).Scan(&lines))
	assert.Equal(t, 2, lines)
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM orders`).Scan(&orders))
	assert.Zero(t, orders)

	_, err = pool.Exec(ctx, `UPDATE cart_items SET quantity = 3 WHERE cart_id = $1 AND product_id = $2`, cartID, teeID)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1 AND product_id = $2`, cartID, capID)
	require.NoError(t, err)
	_, err = repo.CreateFromCart(ctx, buildOrder(t, customerID, teeID, time.Now()), cartID)
	assert.ErrorIs(t, err, ErrCartChanged)
}

func TestPostgres_ListByCustomerNewestFirst(t *testing.T) {
	ctx := context.Background()
	pool := pgtest.Pool(t)
	repo := NewPostgres(pool, nil)

	customerID := pgtest.InsertCustomer(t, pool, "ann@example.com", "customer")
	productID := pgtest.InsertProduct(t, pool, "Tee", "20.00", 5)

	base := time.Now().Add(-time.Hour).UTC().Truncate(time.Second)
	var ids []string
	for i := 0; i < 3; i++ {
		cartID := pgtest.InsertCart(t, pool, customerID, 2, productID)
		o, err := repo.CreateFromCart(ctx, buildOrder(t, customerID, productID, base.Add(time.Duration(i)*time.Minute)), cartID)
		require.NoError(t, err)
		ids = append(ids, o.ID)
		_, err = pool.Exec(ctx, `DELETE FROM carts WHERE customer_id = $1`, customerID)
		require.NoError(t, err)
	}

	recent, err := repo.ListByCustomer(ctx, customerID, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, ids[2], recent[0].ID)
	assert.Equal(t, ids[1], recent[1].ID)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	for _, o := range all {
		assert.Len(t, o.Items, 1)
	}

	require.NoError(t, repo.Delete(ctx, ids[0]))
	_, err = repo.GetByID(ctx, ids[0])
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, uuid.NewString()), domain.ErrNotFound)
}

func TestPostgres_DeletedProductKeepsOrderSnapshot(t *testing.T) {
	ctx := context.Background()
	pool := pgtest.Pool(t)
	repo := NewPostgres(pool, nil)

	customerID := pgtest.InsertCustomer(t, pool, "ann@example.com", "customer")
	productID := pgtest.InsertProduct(t, pool, "Tee", "20.00", 5)
	cartID := pgtest.InsertCart(t, pool, customerID, 2, productID)

	created, err := repo.CreateFromCart(ctx, buildOrder(t, customerID, productID, time.Now()), cartID)
	require.NoError(t, err)

	_, err = pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, productID)
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Empty(t, got.Items[0].ProductID)
	assert.Equal(t, "Tee", got.Items[0].ProductName)
}
