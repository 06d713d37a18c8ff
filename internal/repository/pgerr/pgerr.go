// Package pgerr translates pgx failures into domain error kinds.
package pgerr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"storefront/internal/domain"
)

const (
	uniqueViolation           = "23505"
	foreignKeyViolation       = "23503"
	// Raised for ids that are not valid UUIDs. No row can match them.
	invalidTextRepresentation = "22P02"
)

// Map converts err into ErrNotFound, ErrAlreadyExists or a wrapped ErrDatabase.
// Domain errors and nil pass through unchanged.
func Map(err error) error {
	if err == nil {
		return nil
	}
	var de *domain.Error
	if errors.As(err, &de) || errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrAlreadyExists) {
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return domain.ErrAlreadyExists
		case foreignKeyViolation, invalidTextRepresentation:
			return domain.ErrNotFound
		}
	}
	return fmt.Errorf("%w: %v", domain.ErrDatabase, err)
}
