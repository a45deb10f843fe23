package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
)

var (
	ErrFieldsNotAllowedToUpdate = errors.New("fields not allowed to update")
	ErrDuplicateEmail           = errors.New("email already exists")
	ErrVersionConflict          = errors.New("post was modified concurrently")
	ErrUnknownAuthor            = errors.New("author does not exist")
)

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

func isUniqueViolation(err error) bool {
	return hasCode(err, uniqueViolationCode)
}

func isForeignKeyViolation(err error) bool {
	return hasCode(err, foreignKeyViolationCode)
}
