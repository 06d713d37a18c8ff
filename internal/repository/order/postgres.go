package order

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"storefront/internal/domain"
	"storefront/internal/logging"
	"storefront/internal/repository/pgerr"
)

const orderSelect = `
SELECT o.id::text, o.customer_id::text, c.email, o.discount_code, o.discount_amount, o.ordered_at,
       pay.id::text, pay.order_id::text, pay.amount, pay.paid_at, pay.status
FROM orders o
JOIN customers c ON c.id = o.customer_id
JOIN payments pay ON pay.order_id = o.id`

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *logrus.Entry
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *logrus.Entry) Repository {
	return &postgresRepo{pool: pool, logger: logging.OrDiscard(logger).WithField("repo", "order")}
}

func (r *postgresRepo) CreateFromCart(ctx context.Context, o domain.Order, cartID string) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, pgerr.Map(err)
	}
	defer tx.Rollback(ctx)

	// The cart row stays locked until commit, so concurrent item changes and
	// checkouts of the same cart wait for this one.
	var locked string
	err = tx.QueryRow(ctx, `SELECT id::text FROM carts WHERE id = $1 AND customer_id = $2 FOR UPDATE`, cartID, o.CustomerID).Scan(&locked)
	if err != nil {
		return nil, pgerr.Map(err)
	}
	if err := matchCartItems(ctx, tx, cartID, o.Items); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM carts WHERE id = $1`, cartID); err != nil {
		return nil, pgerr.Map(err)
	}

	var orderID string
	if err := tx.QueryRow(ctx, `
INSERT INTO orders (customer_id, discount_code, discount_amount, ordered_at)
VALUES ($1, $2, $3, $4)
RETURNING id::text
`, o.CustomerID, o.DiscountCode, o.DiscountAmount, o.Date).Scan(&orderID); err != nil {
		return nil, pgerr.Map(err)
	}

	for i, it := range o.Items {
		if _, err := tx.Exec(ctx, `
INSERT INTO order_items (order_id, product_id, product_name, unit_price, quantity, position)
VALUES ($1, $2, $3, $4, $5, $6)
`, orderID, it.ProductID, it.ProductName, it.UnitPrice, it.Quantity, i); err != nil {
			return nil, pgerr.Map(err)
		}
	}

	if _, err := tx.Exec(ctx, `
INSERT INTO payments (order_id, amount, paid_at, status)
VALUES ($1, $2, $3, $4)
`, orderID, o.Payment.Amount, o.Payment.Date, o.Payment.Status); err != nil {
		return nil, pgerr.Map(err)
	}

	if _, err := tx.Exec(ctx, `INSERT INTO carts (customer_id) VALUES ($1)`, o.CustomerID); err != nil {
		return nil, pgerr.Map(err)
	}

	orders, err := fetchOrders(ctx, tx, orderSelect+` WHERE o.id = $1`, orderID)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, fmt.Errorf("%w: order %s missing after insert", domain.ErrDatabase, orderID)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, pgerr.Map(err)
	}
	r.logger.WithFields(logrus.Fields{
		"order_id":    orderID,
		"customer_id": o.CustomerID,
		"items":       len(o.Items),
		"total":       o.Total().String(),
	}).Info("order placed")
	return &orders[0], nil
}

// matchCartItems fails with ErrCartChanged unless the cart holds exactly the
// products and quantities of items.
func matchCartItems(ctx context.Context, tx pgx.Tx, cartID string, items []domain.OrderItem) error {
	rows, err := tx.Query(ctx, `SELECT product_id::text, quantity FROM cart_items WHERE cart_id = $1`, cartID)
	if err != nil {
		return pgerr.Map(err)
	}
	inCart := map[string]int{}
	for rows.Next() {
		var (
			productID string
			qty       int
		)
		if err := rows.Scan(&productID, &qty); err != nil {
			rows.Close()
			return pgerr.Map(err)
		}
		inCart[productID] = qty
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return pgerr.Map(err)
	}

	if len(inCart) != len(items) {
		return ErrCartChanged
	}
	for _, it := range items {
		if inCart[it.ProductID] != it.Quantity {
			return ErrCartChanged
		}
	}
	return nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	orders, err := fetchOrders(ctx, r.pool, orderSelect+` WHERE o.id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, domain.ErrNotFound
	}
	return &orders[0], nil
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Order, error) {
	return fetchOrders(ctx, r.pool, orderSelect+` ORDER BY o.ordered_at DESC, o.id`)
}

func (r *postgresRepo) ListByCustomer(ctx context.Context, customerID string, limit int) ([]domain.Order, error) {
	q := orderSelect + ` WHERE o.customer_id = $1 ORDER BY o.ordered_at DESC, o.id`
	if limit > 0 {
		return fetchOrders(ctx, r.pool, q+` LIMIT $2`, customerID, limit)
	}
	return fetchOrders(ctx, r.pool, q, customerID)
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return pgerr.Map(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.logger.WithField("order_id", id).Info("order deleted")
	return nil
}

func fetchOrders(ctx context.Context, q querier, query string, args ...any) ([]domain.Order, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, pgerr.Map(err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	index := map[string]int{}
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(
			&o.ID,
			&o.CustomerID,
			&o.CustomerEmail,
			&o.DiscountCode,
			&o.DiscountAmount,
			&o.Date,
			&o.Payment.ID,
			&o.Payment.OrderID,
			&o.Payment.Amount,
			&o.Payment.Date,
			&o.Payment.Status,
		); err != nil {
			return nil, pgerr.Map(err)
		}
		o.Items = []domain.OrderItem{}
		index[o.ID] = len(orders)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, pgerr.Map(err)
	}
	rows.Close()
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	itemRows, err := q.Query(ctx, `
SELECT id::text, order_id::text, product_id::text, product_name, unit_price, quantity
FROM order_items
WHERE order_id = ANY($1::uuid[])
ORDER BY order_id, position
`, ids)
	if err != nil {
		return nil, pgerr.Map(err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var (
			it        domain.OrderItem
			productID *string
		)
		if err := itemRows.Scan(&it.ID, &it.OrderID, &productID, &it.ProductName, &it.UnitPrice, &it.Quantity); err != nil {
			return nil, pgerr.Map(err)
		}
		if productID != nil {
			it.ProductID = *productID
		}
		i := index[it.OrderID]
		orders[i].Items = append(orders[i].Items, it)
	}
	if err := itemRows.Err(); err != nil {
		return nil, pgerr.Map(err)
	}
	return orders, nil
}
