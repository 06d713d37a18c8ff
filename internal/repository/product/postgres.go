package product

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"storefront/internal/domain"
	"storefront/internal/logging"
	"storefront/internal/repository/pgerr"
)

// Columns is the select list Scan expects, qualified by the products alias p.
const Columns = `p.id::text, p.name, p.price, p.stock, p.categories, p.description, p.image, p.sizes, p.colors, p.rating, p.created_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *logrus.Entry
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *logrus.Entry) Repository {
	return &postgresRepo{pool: pool, logger: logging.OrDiscard(logger).WithField("repo", "product")}
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	q := `SELECT ` + Columns + ` FROM products p ORDER BY p.created_at DESC, p.id`
	return r.query(ctx, "list", q)
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	q := `SELECT ` + Columns + ` FROM products p WHERE p.id = $1`
	p, err := Scan(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		return nil, pgerr.Map(err)
	}
	return p, nil
}

func (r *postgresRepo) Search(ctx context.Context, query string) ([]domain.Product, error) {
	q := `SELECT ` + Columns + `
FROM products p
WHERE p.name ILIKE $1
   OR p.description ILIKE $1
   OR EXISTS (SELECT 1 FROM unnest(p.categories) AS c WHERE c ILIKE $1)
ORDER BY p.name, p.id`
	return r.query(ctx, "search", q, "%"+escapeLike(query)+"%")
}

func (r *postgresRepo) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	q := `
INSERT INTO products AS p (name, price, stock, categories, description, image, sizes, colors, rating)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + Columns
	out, err := Scan(r.pool.QueryRow(ctx, q, args(p)...))
	if err != nil {
		r.logger.WithError(err).WithField("name", p.Name).Error("create product")
		return nil, pgerr.Map(err)
	}
	r.logger.WithField("id", out.ID).Debug("product created")
	return out, nil
}

// Update merges patch over the product read under a row lock. Ratings are
// only ever changed by AddRating.
func (r *postgresRepo) Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, pgerr.Map(err)
	}
	defer tx.Rollback(ctx)

	current, err := Scan(tx.QueryRow(ctx, `SELECT `+Columns+` FROM products p WHERE p.id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, pgerr.Map(err)
	}
	next, err := current.Apply(patch)
	if err != nil {
		return nil, err
	}

	q := `
UPDATE products AS p
SET name = $1, price = $2, stock = $3, categories = $4, description = $5,
    image = $6, sizes = $7, colors = $8
WHERE p.id = $9
RETURNING ` + Columns
	out, err := Scan(tx.QueryRow(ctx, q, append(args(next)[:8], current.ID)...))
	if err != nil {
		return nil, pgerr.Map(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, pgerr.Map(err)
	}
	r.logger.WithField("id", out.ID).Debug("product updated")
	return out, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return pgerr.Map(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AddRating appends in SQL so concurrent ratings are not lost.
func (r *postgresRepo) AddRating(ctx context.Context, id string, rating int) (*domain.Product, error) {
	q := `
UPDATE products AS p SET rating = array_append(p.rating, $2)
WHERE p.id = $1
RETURNING ` + Columns
	out, err := Scan(r.pool.QueryRow(ctx, q, id, rating))
	if err != nil {
		return nil, pgerr.Map(err)
	}
	return out, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	q := `
INSERT INTO products AS p (id, name, price, stock, categories, description, image, sizes, colors, rating)
VALUES (COALESCE(NULLIF($10, '')::uuid, gen_random_uuid()), $1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    price = EXCLUDED.price,
    stock = EXCLUDED.stock,
    categories = EXCLUDED.categories,
    description = EXCLUDED.description,
    image = EXCLUDED.image,
    sizes = EXCLUDED.sizes,
    colors = EXCLUDED.colors
RETURNING ` + Columns
	out, err := Scan(r.pool.QueryRow(ctx, q, append(args(p), p.ID)...))
	if err != nil {
		r.logger.WithError(err).WithField("name", p.Name).Error("upsert product")
		return nil, pgerr.Map(err)
	}
	r.logger.WithFields(logrus.Fields{"id": out.ID, "name": out.Name}).Debug("product upserted")
	return out, nil
}

func (r *postgresRepo) query(ctx context.Context, op, q string, params ...any) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, q, params...)
	if err != nil {
		r.logger.WithError(err).WithField("op", op).Error("query products")
		return nil, pgerr.Map(err)
	}
	defer rows.Close()

	result := []domain.Product{}
	for rows.Next() {
		p, err := Scan(rows)
		if err != nil {
			return nil, pgerr.Map(err)
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, pgerr.Map(err)
	}
	r.logger.WithFields(logrus.Fields{"op": op, "count": len(result)}).Debug("products listed")
	return result, nil
}

// Scan reads one product selected with Columns. extra receives any columns
// selected after Columns.
func Scan(row pgx.Row, extra ...any) (*domain.Product, error) {
	var (
		p     domain.Product
		sizes []string
	)
	dest := []any{
		&p.ID,
		&p.Name,
		&p.Price,
		&p.Stock,
		&p.Categories,
		&p.Description,
		&p.Image,
		&sizes,
		&p.Colors,
		&p.Rating,
		&p.CreatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	p.Sizes = make([]domain.Size, 0, len(sizes))
	for _, s := range sizes {
		p.Sizes = append(p.Sizes, domain.Size(s))
	}
	if p.Rating == nil {
		p.Rating = []int{}
	}
	return &p, nil
}

func args(p domain.Product) []any {
	sizes := make([]string, 0, len(p.Sizes))
	for _, s := range p.Sizes {
		sizes = append(sizes, string(s))
	}
	rating := p.Rating
	if rating == nil {
		rating = []int{}
	}
	return []any{p.Name, p.Price, p.Stock, p.Categories, p.Description, p.Image, sizes, p.Colors, rating}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.TrimSpace(s))
}
