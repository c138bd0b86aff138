// Package verifier checks an upload by comparing the source dataset's row
// count against a COUNT(*) of the destination table.
package verifier

import (
	"context"
	"fmt"
	"io"

	"github.com/jackc/pgx/v5"

	"github.com/vvka-141/csvup/pkg/csvup"
)

// RowQuerier is the slice of a pgx pool the verifier needs. It exists so
// unit tests can substitute a canned row.
type RowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Verifier compares local and remote row counts and writes the report line.
type Verifier struct {
	logger csvup.Logger
	out    io.Writer
}

// New creates a Verifier that writes its report line to out.
func New(logger csvup.Logger, out io.Writer) *Verifier {
	return &Verifier{logger: logger, out: out}
}

// Count returns the number of rows currently in tableName.
// Any execution or scan failure, including an unexpected result shape,
// wraps csvup.ErrQuery.
func (v *Verifier) Count(ctx context.Context, q RowQuerier, tableName string) (int64, error) {
	ident := pgx.Identifier{tableName}.Sanitize()

	var count int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM "+ident).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: count rows in %s: %v", csvup.ErrQuery, tableName, err)
	}
	return count, nil
}

// Verify counts the destination rows, compares against localCount, writes
// the single report line, and returns the report. A mismatch is a reported
// outcome, never an error.
func (v *Verifier) Verify(ctx context.Context, q RowQuerier, tableName string, localCount int64) (csvup.Report, error) {
	remote, err := v.Count(ctx, q, tableName)
	if err != nil {
		return csvup.Report{}, err
	}

	report := csvup.Report{Local: localCount, Remote: remote}
	v.logger.Verbose("Verification: local=%d remote=%d", report.Local, report.Remote)
	fmt.Fprintln(v.out, report.String())

	return report, nil
}
