package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/csvup/pkg/csvup"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_LoanScenario(t *testing.T) {
	path := writeCSV(t, "id,amount\n1,100.0\n2,200.5\n3,50.0\n")

	ds, err := Load(path, ',')
	require.NoError(t, err)

	assert.Equal(t, 3, ds.RowCount())
	assert.Equal(t, 2, ds.ColumnCount())
	assert.Equal(t, []string{"id", "amount"}, ds.ColumnNames())
	assert.Equal(t, TypeBigint, ds.Columns[0].Type)
	assert.Equal(t, TypeDouble, ds.Columns[1].Type)

	assert.Equal(t, []any{int64(1), 100.0}, ds.Rows[0])
	assert.Equal(t, []any{int64(2), 200.5}, ds.Rows[1])
	assert.Equal(t, []any{int64(3), 50.0}, ds.Rows[2])
}

func TestLoad_HeaderOnly(t *testing.T) {
	path := writeCSV(t, "id,amount\n")

	ds, err := Load(path, ',')
	require.NoError(t, err)
	assert.Equal(t, 0, ds.RowCount())
	assert.Equal(t, 2, ds.ColumnCount())
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.csv"), ',')
	assert.True(t, errors.Is(err, csvup.ErrFileNotFound), "got: %v", err)
}

func TestLoad_EmptyFile(t *testing.T) {
	path := writeCSV(t, "")

	_, err := Load(path, ',')
	assert.True(t, errors.Is(err, csvup.ErrParse), "got: %v", err)
}

func TestLoad_RaggedRows(t *testing.T) {
	path := writeCSV(t, "id,amount\n1,100.0\n2\n")

	_, err := Load(path, ',')
	assert.True(t, errors.Is(err, csvup.ErrParse), "got: %v", err)
}

func TestLoad_DuplicateColumnNames(t *testing.T) {
	path := writeCSV(t, "id,id\n1,2\n")

	_, err := Load(path, ',')
	assert.True(t, errors.Is(err, csvup.ErrParse), "got: %v", err)
	assert.Contains(t, err.Error(), "duplicate column name")
}

func TestLoad_EmptyColumnName(t *testing.T) {
	path := writeCSV(t, "id,,amount\n1,2,3\n")

	_, err := Load(path, ',')
	assert.True(t, errors.Is(err, csvup.ErrParse), "got: %v", err)
}

func TestLoad_CustomDelimiter(t *testing.T) {
	path := writeCSV(t, "id;name\n1;alice\n2;bob\n")

	ds, err := Load(path, ';')
	require.NoError(t, err)
	assert.Equal(t, 2, ds.RowCount())
	assert.Equal(t, TypeText, ds.Columns[1].Type)
	assert.Equal(t, []any{int64(1), "alice"}, ds.Rows[0])
}

func TestLoad_ZeroDelimiterDefaultsToComma(t *testing.T) {
	path := writeCSV(t, "id\n7\n")

	ds, err := Load(path, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, ds.RowCount())
	assert.Equal(t, []any{int64(7)}, ds.Rows[0])
}

func TestLoad_NullsDoNotBreakTypes(t *testing.T) {
	path := writeCSV(t, "id,amount\n1,\n2,200.5\n")

	ds, err := Load(path, ',')
	require.NoError(t, err)
	assert.Equal(t, TypeDouble, ds.Columns[1].Type)
	assert.Nil(t, ds.Rows[0][1])
	assert.Equal(t, 200.5, ds.Rows[1][1])
}

func TestLoad_QuotedFields(t *testing.T) {
	path := writeCSV(t, "id,note\n1,\"hello, world\"\n")

	ds, err := Load(path, ',')
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1), "hello, world"}, ds.Rows[0])
}
