package db

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vvka-141/csvup/pkg/csvup"
)

// ClassifyError maps a PostgreSQL server error onto the csvup failure
// taxonomy by SQLSTATE class, so callers can test with errors.Is().
// Errors that are not PgErrors are returned unchanged.
//
// SQLSTATE classes:
//   - 08    connection exception
//   - 28    invalid authorization
//   - 57    operator intervention (shutdown, crash)
//   - 53    insufficient resources
//   - 42501 insufficient privilege (checked before the general 42 class)
//   - 42    syntax error or access rule violation (bad identifiers, types)
//   - 22    data exception (values rejected by the column type)
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	sentinel := sentinelForSQLState(pgErr.Code)
	if sentinel == nil {
		return err
	}

	return fmt.Errorf("%w: %s (SQLSTATE %s)", sentinel, pgErr.Message, pgErr.Code)
}

func sentinelForSQLState(code string) error {
	if code == "42501" {
		return csvup.ErrPermission
	}

	switch {
	case strings.HasPrefix(code, "08"),
		strings.HasPrefix(code, "28"),
		strings.HasPrefix(code, "53"),
		strings.HasPrefix(code, "57"):
		return csvup.ErrConnection
	case strings.HasPrefix(code, "42"),
		strings.HasPrefix(code, "22"):
		return csvup.ErrSchema
	}

	return nil
}
