package customer

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"storefront/internal/domain"
	"storefront/internal/logging"
	"storefront/internal/repository/pgerr"
	productrepo "storefront/internal/repository/product"
)

const columns = `id::text, first_name, last_name, email, password_hash, role, created_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *logrus.Entry
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *logrus.Entry) Repository {
	return &postgresRepo{pool: pool, logger: logging.OrDiscard(logger).WithField("repo", "customer")}
}

func (r *postgresRepo) Create(ctx context.Context, c domain.Customer) (*domain.Customer, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, pgerr.Map(err)
	}
	defer tx.Rollback(ctx)

	const q = `
INSERT INTO customers (first_name, last_name, email, password_hash, role)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + columns
	out, err := r.scanCustomer(tx.QueryRow(ctx, q, c.FirstName, c.LastName, strings.ToLower(c.Email), c.Password, c.Role))
	if err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, `INSERT INTO carts (customer_id) VALUES ($1)`, out.ID); err != nil {
		r.logger.WithError(err).WithField("customer_id", out.ID).Error("provision cart")
		return nil, pgerr.Map(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, pgerr.Map(err)
	}
	r.logger.WithFields(logrus.Fields{"id": out.ID, "role": out.Role}).Info("customer created")
	return out, nil
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	const q = `SELECT ` + columns + ` FROM customers WHERE lower(email) = lower($1) LIMIT 1`
	return r.scanCustomer(r.pool.QueryRow(ctx, q, strings.TrimSpace(email)))
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	const q = `SELECT ` + columns + ` FROM customers WHERE id = $1`
	return r.scanCustomer(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Customer, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+columns+` FROM customers ORDER BY created_at, id`)
	if err != nil {
		return nil, pgerr.Map(err)
	}
	defer rows.Close()

	result := []domain.Customer{}
	for rows.Next() {
		c, err := r.scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, pgerr.Map(err)
	}
	return result, nil
}

func (r *postgresRepo) Update(ctx context.Context, c domain.Customer) (*domain.Customer, error) {
	const q = `
UPDATE customers
SET first_name = $1, last_name = $2, email = $3, password_hash = $4, role = $5
WHERE id = $6
RETURNING ` + columns
	out, err := r.scanCustomer(r.pool.QueryRow(ctx, q, c.FirstName, c.LastName, strings.ToLower(c.Email), c.Password, c.Role, c.ID))
	if err != nil {
		return nil, err
	}
	out.Wishlist = c.Wishlist
	return out, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return pgerr.Map(err)
	}
	defer tx.Rollback(ctx)

	// Lock the cart before touching product rows, in the same order cart
	// item changes take their locks.
	var cartID string
	err = tx.QueryRow(ctx, `SELECT id::text FROM carts WHERE customer_id = $1 FOR UPDATE`, id).Scan(&cartID)
	if err != nil {
		if err = pgerr.Map(err); errors.Is(err, domain.ErrNotFound) {
			return ErrCartMissing
		}
		return err
	}
	// Units reserved by the cart go back to stock before the cart disappears.
	const restock = `
UPDATE products p
SET stock = p.stock + ci.quantity
FROM cart_items ci
WHERE ci.cart_id = $1 AND p.id = ci.product_id`
	if _, err := tx.Exec(ctx, restock, cartID); err != nil {
		return pgerr.Map(err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM carts WHERE id = $1`, cartID); err != nil {
		return pgerr.Map(err)
	}
	cmd, err := tx.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return pgerr.Map(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if err := tx.Commit(ctx); err != nil {
		return pgerr.Map(err)
	}
	r.logger.WithField("id", id).Info("customer deleted")
	return nil
}

func (r *postgresRepo) Wishlist(ctx context.Context, customerID string) ([]domain.Product, error) {
	q := `
SELECT ` + productrepo.Columns + `
FROM wishlist_items w
JOIN products p ON p.id = w.product_id
WHERE w.customer_id = $1
ORDER BY w.added_at, p.id`
	rows, err := r.pool.Query(ctx, q, customerID)
	if err != nil {
		return nil, pgerr.Map(err)
	}
	defer rows.Close()

	result := []domain.Product{}
	for rows.Next() {
		p, err := productrepo.Scan(rows)
		if err != nil {
			return nil, pgerr.Map(err)
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, pgerr.Map(err)
	}
	return result, nil
}

func (r *postgresRepo) AddWishlistItem(ctx context.Context, customerID, productID string) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO wishlist_items (customer_id, product_id) VALUES ($1, $2)`, customerID, productID)
	return pgerr.Map(err)
}

func (r *postgresRepo) RemoveWishlistItem(ctx context.Context, customerID, productID string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM wishlist_items WHERE customer_id = $1 AND product_id = $2`, customerID, productID)
	if err != nil {
		return pgerr.Map(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var c domain.Customer
	err := row.Scan(
		&c.ID,
		&c.FirstName,
		&c.LastName,
		&c.Email,
		&c.Password,
		&c.Role,
		&c.CreatedAt,
	)
	if err != nil {
		mapped := pgerr.Map(err)
		if errors.Is(mapped, domain.ErrDatabase) {
			r.logger.WithError(err).Error("scan customer")
		}
		return nil, mapped
	}
	c.Wishlist = []domain.Product{}
	return &c, nil
}
