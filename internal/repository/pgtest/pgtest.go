// Package pgtest prepares a migrated Postgres database for repository
// integration tests. Tests are skipped when TEST_DB_DSN is unset.
package pgtest

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/db"
	"storefront/internal/migrate"
)

const truncateAll = `TRUNCATE payments, order_items, orders, cart_items, carts, wishlist_items, tokens, discount_codes, products, customers CASCADE`

// Pool connects to TEST_DB_DSN, applies migrations and empties every table.
func Pool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	ctx := context.Background()

	pool, err := db.Connect(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if _, err := pool.Exec(ctx, truncateAll); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
	return pool
}

// InsertCustomer creates a customer row with role and returns its id.
func InsertCustomer(t *testing.T, pool *pgxpool.Pool, email, role string) string {
	t.Helper()
	var id string
	err := pool.QueryRow(context.Background(), `
INSERT INTO customers (first_name, last_name, email, password_hash, role)
VALUES ('Test', 'User', $1, 'hash', $2)
RETURNING id::text`, email, role).Scan(&id)
	if err != nil {
		t.Fatalf("insert customer: %v", err)
	}
	return id
}

// InsertProduct creates a product priced at price with stock units and returns its id.
func InsertProduct(t *testing.T, pool *pgxpool.Pool, name, price string, stock int) string {
	t.Helper()
	var id string
	err := pool.QueryRow(context.Background(), `
INSERT INTO products (name, price, stock, categories, description, image, sizes, colors)
VALUES ($1, $2::numeric, $3, '{tops}', 'desc', 'tshirt.png', '{M}', '{black}')
RETURNING id::text`, name, price, stock).Scan(&id)
	if err != nil {
		t.Fatalf("insert product: %v", err)
	}
	return id
}

// InsertCart creates a cart for customerID holding quantity units of each
// product in productIDs and returns its id.
func InsertCart(t *testing.T, pool *pgxpool.Pool, customerID string, quantity int, productIDs ...string) string {
	t.Helper()
	ctx := context.Background()
	var id string
	if err := pool.QueryRow(ctx, `INSERT INTO carts (customer_id) VALUES ($1) RETURNING id::text`, customerID).Scan(&id); err != nil {
		t.Fatalf("insert cart: %v", err)
	}
	for i, productID := range productIDs {
		if _, err := pool.Exec(ctx, `
INSERT INTO cart_items (cart_id, product_id, quantity, position)
VALUES ($1, $2, $3, $4)`, id, productID, quantity, i); err != nil {
			t.Fatalf("insert cart item: %v", err)
		}
	}
	return id
}
