package discount

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"storefront/internal/domain"
	"storefront/internal/logging"
	"storefront/internal/repository/pgerr"
)

const columns = `code, type, value, expiration_date, is_active, created_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *logrus.Entry
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *logrus.Entry) Repository {
	return &postgresRepo{pool: pool, logger: logging.OrDiscard(logger).WithField("repo", "discount")}
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.DiscountCode, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+columns+` FROM discount_codes ORDER BY created_at DESC, code`)
	if err != nil {
		return nil, pgerr.Map(err)
	}
	defer rows.Close()

	result := []domain.DiscountCode{}
	for rows.Next() {
		d, err := scanDiscount(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, pgerr.Map(err)
	}
	return result, nil
}

func (r *postgresRepo) GetByCode(ctx context.Context, code string) (*domain.DiscountCode, error) {
	return scanDiscount(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM discount_codes WHERE code = $1`, code))
}

func (r *postgresRepo) Create(ctx context.Context, d domain.DiscountCode) (*domain.DiscountCode, error) {
	const q = `
INSERT INTO discount_codes (code, type, value, expiration_date, is_active)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + columns
	out, err := scanDiscount(r.pool.QueryRow(ctx, q, d.Code, d.Type, d.Value, d.ExpirationDate, d.IsActive))
	if err != nil {
		return nil, err
	}
	r.logger.WithFields(logrus.Fields{"code": out.Code, "type": out.Type}).Info("discount code created")
	return out, nil
}

func (r *postgresRepo) Update(ctx context.Context, d domain.DiscountCode) (*domain.DiscountCode, error) {
	const q = `
UPDATE discount_codes
SET type = $2, value = $3, expiration_date = $4, is_active = $5
WHERE code = $1
RETURNING ` + columns
	return scanDiscount(r.pool.QueryRow(ctx, q, d.Code, d.Type, d.Value, d.ExpirationDate, d.IsActive))
}

func (r *postgresRepo) Delete(ctx context.Context, code string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM discount_codes WHERE code = $1`, code)
	if err != nil {
		return pgerr.Map(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanDiscount(row pgx.Row) (*domain.DiscountCode, error) {
	var d domain.DiscountCode
	if err := row.Scan(&d.Code, &d.Type, &d.Value, &d.ExpirationDate, &d.IsActive, &d.CreatedAt); err != nil {
		return nil, pgerr.Map(err)
	}
	return &d, nil
}
