package cart

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"storefront/internal/domain"
	"storefront/internal/logging"
	"storefront/internal/repository/pgerr"
	productrepo "storefront/internal/repository/product"
)

const cartColumns = `id::text, customer_id::text, total_amount, created_at`

// querier is satisfied by both the pool and a transaction.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *logrus.Entry
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *logrus.Entry) Repository {
	return &postgresRepo{pool: pool, logger: logging.OrDiscard(logger).WithField("repo", "cart")}
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Cart, error) {
	return fetchCart(ctx, r.pool, `SELECT `+cartColumns+` FROM carts WHERE id = $1`, id)
}

func (r *postgresRepo) GetByCustomer(ctx context.Context, customerID string) (*domain.Cart, error) {
	return fetchCart(ctx, r.pool, `SELECT `+cartColumns+` FROM carts WHERE customer_id = $1`, customerID)
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Cart, error) {
	rows, err := r.pool.Query(ctx, `SELECT id::text FROM carts ORDER BY created_at, id`)
	if err != nil {
		return nil, pgerr.Map(err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, pgerr.Map(err)
	}

	result := make([]domain.Cart, 0, len(ids))
	for _, id := range ids {
		c, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	return result, nil
}

func (r *postgresRepo) AddItem(ctx context.Context, cartID, productID string, quantity int) (*domain.Cart, error) {
	return r.change(ctx, cartID, func(tx pgx.Tx, c domain.Cart) (domain.Cart, error) {
		q := `SELECT ` + productrepo.Columns + ` FROM products p WHERE p.id = $1 FOR UPDATE`
		p, err := productrepo.Scan(tx.QueryRow(ctx, q, productID))
		if err != nil {
			if err = pgerr.Map(err); errors.Is(err, domain.ErrNotFound) {
				return c, ErrProductMissing
			}
			return c, err
		}
		next, err := c.AddItem(*p, quantity)
		if err != nil {
			return c, err
		}
		reserved, err := p.WithStockDelta(-quantity)
		if err != nil {
			return c, err
		}

		if _, err := tx.Exec(ctx, `UPDATE products SET stock = $2 WHERE id = $1`, p.ID, reserved.Stock); err != nil {
			return c, pgerr.Map(err)
		}
		if _, err := tx.Exec(ctx, `
INSERT INTO cart_items (cart_id, product_id, quantity, position)
VALUES ($1, $2, $3, $4)
ON CONFLICT (cart_id, product_id) DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
`, c.ID, p.ID, quantity, len(c.Items)); err != nil {
			return c, pgerr.Map(err)
		}
		return next, nil
	})
}

func (r *postgresRepo) RemoveItem(ctx context.Context, cartID, productID string, quantity int) (*domain.Cart, error) {
	return r.change(ctx, cartID, func(tx pgx.Tx, c domain.Cart) (domain.Cart, error) {
		next, err := c.RemoveItem(productID, quantity)
		if err != nil {
			return c, err
		}

		if next.Quantity(productID) == 0 {
			_, err = tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1 AND product_id = $2`, c.ID, productID)
		} else {
			_, err = tx.Exec(ctx, `
UPDATE cart_items SET quantity = quantity - $3
WHERE cart_id = $1 AND product_id = $2
`, c.ID, productID, quantity)
		}
		if err != nil {
			return c, pgerr.Map(err)
		}
		if _, err := tx.Exec(ctx, `UPDATE products SET stock = stock + $2 WHERE id = $1`, productID, quantity); err != nil {
			return c, pgerr.Map(err)
		}
		return next, nil
	})
}

// change runs apply against the cart read under a row lock and stores the
// total of the cart it returns, all in one transaction.
func (r *postgresRepo) change(ctx context.Context, cartID string, apply func(tx pgx.Tx, c domain.Cart) (domain.Cart, error)) (*domain.Cart, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, pgerr.Map(err)
	}
	defer tx.Rollback(ctx)

	current, err := fetchCart(ctx, tx, `SELECT `+cartColumns+` FROM carts WHERE id = $1 FOR UPDATE`, cartID)
	if err != nil {
		return nil, err
	}
	next, err := apply(tx, *current)
	if err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, `UPDATE carts SET total_amount = $2 WHERE id = $1`, cartID, next.TotalAmount); err != nil {
		return nil, pgerr.Map(err)
	}

	saved, err := fetchCart(ctx, tx, `SELECT `+cartColumns+` FROM carts WHERE id = $1`, cartID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, pgerr.Map(err)
	}
	r.logger.WithFields(logrus.Fields{
		"cart_id": cartID,
		"items":   len(saved.Items),
		"total":   saved.TotalAmount.StringFixed(2),
	}).Debug("cart changed")
	return saved, nil
}

func fetchCart(ctx context.Context, q querier, cartQuery string, args ...any) (*domain.Cart, error) {
	var row domain.Cart
	if err := q.QueryRow(ctx, cartQuery, args...).Scan(&row.ID, &row.CustomerID, &row.TotalAmount, &row.CreatedAt); err != nil {
		return nil, pgerr.Map(err)
	}

	itemsQuery := `
SELECT ` + productrepo.Columns + `, ci.quantity
FROM cart_items ci
JOIN products p ON p.id = ci.product_id
WHERE ci.cart_id = $1
ORDER BY ci.position`
	rows, err := q.Query(ctx, itemsQuery, row.ID)
	if err != nil {
		return nil, pgerr.Map(err)
	}
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		var qty int
		p, err := productrepo.Scan(rows, &qty)
		if err != nil {
			return nil, pgerr.Map(err)
		}
		items = append(items, domain.CartItem{Product: *p, Quantity: qty})
	}
	if err := rows.Err(); err != nil {
		return nil, pgerr.Map(err)
	}

	// The total is derived from current prices rather than the stored column.
	c, err := domain.NewCart(row.CustomerID, items)
	if err != nil {
		return nil, err
	}
	c.ID, c.CreatedAt = row.ID, row.CreatedAt
	return &c, nil
}
