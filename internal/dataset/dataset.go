// Package dataset loads delimited text files into an in-memory tabular
// structure with per-column inferred types. The Dataset is immutable once
// loaded; the uploader derives the destination schema from it.
package dataset

// ColumnType is the inferred PostgreSQL-facing type of a column.
type ColumnType int

const (
	TypeBigint ColumnType = iota
	TypeDouble
	TypeBoolean
	TypeTimestamp
	TypeText
)

// SQLType returns the PostgreSQL type name used in generated DDL.
func (t ColumnType) SQLType() string {
	switch t {
	case TypeBigint:
		return "bigint"
	case TypeDouble:
		return "double precision"
	case TypeBoolean:
		return "boolean"
	case TypeTimestamp:
		return "timestamptz"
	default:
		return "text"
	}
}

// String returns the SQL type name; useful in logs and error messages.
func (t ColumnType) String() string {
	return t.SQLType()
}

// Column is a named, typed column in header order.
type Column struct {
	Name string
	Type ColumnType
}

// Dataset is an ordered sequence of named, typed columns paired with an
// ordered sequence of rows. Row values are aligned positionally to Columns
// and already converted to Go types pgx can bind directly
// (int64, float64, bool, time.Time, string, or nil for empty fields).
type Dataset struct {
	Columns []Column
	Rows    [][]any
}

// RowCount returns the number of data rows (the header is not a row).
func (d *Dataset) RowCount() int {
	return len(d.Rows)
}

// ColumnCount returns the number of columns.
func (d *Dataset) ColumnCount() int {
	return len(d.Columns)
}

// ColumnNames returns the column names in header order.
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		names[i] = c.Name
	}
	return names
}
