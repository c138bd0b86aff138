// Package uploader writes a dataset into a PostgreSQL table with full
// replace semantics: drop the table if it exists, recreate it from the
// dataset's inferred schema, and bulk-insert every row.
package uploader

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/csvup/internal/dataset"
	"github.com/vvka-141/csvup/internal/db"
	"github.com/vvka-141/csvup/pkg/csvup"
)

// identifierPattern matches unquoted PostgreSQL identifiers. Quoting would
// widen this, but a loader that silently quotes arbitrary names hides typos;
// reject instead.
var identifierPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Uploader replaces destination tables with dataset contents.
type Uploader struct {
	logger csvup.Logger
}

// New creates an Uploader.
func New(logger csvup.Logger) *Uploader {
	return &Uploader{logger: logger}
}

// Replace drops tableName if it exists, creates it with a schema derived
// from ds, and bulk-inserts all rows via COPY. The operation is not atomic
// with respect to concurrent readers and provides no rollback: a failure
// partway leaves whatever state the server reached.
func (u *Uploader) Replace(ctx context.Context, pool *pgxpool.Pool, tableName string, ds *dataset.Dataset) error {
	if ds == nil {
		return fmt.Errorf("dataset is nil: %w", csvup.ErrInvalidConfig)
	}
	if err := ValidateTableName(tableName); err != nil {
		return err
	}

	ident := pgx.Identifier{tableName}.Sanitize()

	u.logger.Verbose("Dropping table %s if it exists", ident)
	if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS "+ident); err != nil {
		return fmt.Errorf("drop table %s: %w", tableName, db.ClassifyError(err))
	}

	ddl := buildCreateTable(ident, ds.Columns)
	u.logger.Verbose("Creating table: %s", ddl)
	if _, err := pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("create table %s: %w", tableName, db.ClassifyError(err))
	}

	if ds.RowCount() == 0 {
		u.logger.Verbose("Dataset is empty; table %s created with no rows", ident)
		return nil
	}

	copied, err := pool.CopyFrom(ctx,
		pgx.Identifier{tableName},
		ds.ColumnNames(),
		pgx.CopyFromRows(ds.Rows),
	)
	if err != nil {
		return fmt.Errorf("copy into %s: %w", tableName, db.ClassifyError(err))
	}

	u.logger.Verbose("Copied %d rows into %s", copied, ident)
	return nil
}

// ValidateTableName checks that name is a plain PostgreSQL identifier
// within the server's length limit.
func ValidateTableName(name string) error {
	if name == "" {
		return fmt.Errorf("table name is empty: %w", csvup.ErrInvalidConfig)
	}
	if len(name) > csvup.MaxIdentifierLength {
		return fmt.Errorf("table name %q exceeds %d bytes: %w", name, csvup.MaxIdentifierLength, csvup.ErrInvalidConfig)
	}
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("table name %q is not a valid identifier: %w", name, csvup.ErrInvalidConfig)
	}
	return nil
}

// buildCreateTable renders the CREATE TABLE statement for the dataset's
// columns, in header order, all columns nullable.
func buildCreateTable(sanitizedTable string, columns []dataset.Column) string {
	defs := make([]string, len(columns))
	for i, col := range columns {
		defs[i] = pgx.Identifier{col.Name}.Sanitize() + " " + col.Type.SQLType()
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", sanitizedTable, strings.Join(defs, ", "))
}
