package bunstore

import (
	"errors"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// pqUniqueViolation is the Postgres SQLSTATE for unique_violation.
const pqUniqueViolation = "23505"

// isUniqueViolation reports whether err is a typed unique-constraint
// violation from one of the supported drivers. Deliberately narrow: any
// driver error we cannot positively identify as a duplicate key stays a
// store error, so real failures are never masked as races.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}

	return false
}
