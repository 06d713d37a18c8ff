package payment

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"storefront/internal/domain"
	"storefront/internal/logging"
	"storefront/internal/repository/pgerr"
)

const columns = `pay.id::text, pay.order_id::text, pay.amount, pay.paid_at, pay.status`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *logrus.Entry
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *logrus.Entry) Repository {
	return &postgresRepo{pool: pool, logger: logging.OrDiscard(logger).WithField("repo", "payment")}
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Payment, error) {
	return r.query(ctx, `
SELECT `+columns+`
FROM payments pay
JOIN orders o ON o.id = pay.order_id
ORDER BY o.ordered_at DESC, pay.id`)
}

func (r *postgresRepo) ListByCustomer(ctx context.Context, customerID string) ([]domain.Payment, error) {
	return r.query(ctx, `
SELECT `+columns+`
FROM payments pay
JOIN orders o ON o.id = pay.order_id
WHERE o.customer_id = $1
ORDER BY o.ordered_at DESC, pay.id`, customerID)
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	return scanPayment(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM payments pay WHERE pay.id = $1`, id))
}

func (r *postgresRepo) Settle(ctx context.Context, p domain.Payment) (*domain.Payment, error) {
	const q = `
UPDATE payments AS pay
SET amount = $2, paid_at = $3, status = $4
WHERE pay.id = $1 AND pay.status = 'unpaid'
RETURNING ` + columns
	out, err := scanPayment(r.pool.QueryRow(ctx, q, p.ID, p.Amount, p.Date, p.Status))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, ErrAlreadyPaid
	}
	if err != nil {
		return nil, err
	}
	r.logger.WithFields(logrus.Fields{"payment_id": out.ID, "order_id": out.OrderID}).Info("payment settled")
	return out, nil
}

func (r *postgresRepo) query(ctx context.Context, q string, args ...any) ([]domain.Payment, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, pgerr.Map(err)
	}
	defer rows.Close()

	result := []domain.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, pgerr.Map(err)
	}
	return result, nil
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var p domain.Payment
	if err := row.Scan(&p.ID, &p.OrderID, &p.Amount, &p.Date, &p.Status); err != nil {
		return nil, pgerr.Map(err)
	}
	return &p, nil
}
