package services_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/csvup/internal/db"
	"github.com/vvka-141/csvup/internal/logging"
	"github.com/vvka-141/csvup/internal/services"
	testhelpers "github.com/vvka-141/csvup/internal/testing"
	"github.com/vvka-141/csvup/pkg/csvup"
)

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func dropTable(t *testing.T, connString, tableName string) {
	t.Helper()
	pool := testhelpers.GetTestPool(t, connString)
	_, err := pool.Exec(context.Background(), fmt.Sprintf("DROP TABLE IF EXISTS %q", tableName))
	require.NoError(t, err)
}

func TestLoadService_Run_LoanData(t *testing.T) {
	connString := testhelpers.RequireDatabase(t)
	ctx := context.Background()

	csvPath := writeCSV(t, "loan_data.csv",
		"id,amount,approved,issued_at,note\n"+
			"1,1500.50,true,2024-01-15 09:30:00,first\n"+
			"2,320.00,false,2024-02-01 14:00:00,\n"+
			"3,99.99,true,2024-03-10 08:15:00,third\n")

	tableName := "csvup_it_loan_data"
	t.Cleanup(func() { dropTable(t, connString, tableName) })

	var out bytes.Buffer
	service := testhelpers.NewTestLoadService(t, &out)

	err := service.Run(ctx, csvup.LoadConfig{
		CSVPath:          csvPath,
		TableName:        tableName,
		ConnectionString: connString,
		Force:            true,
		Verbose:          testing.Verbose(),
	})
	require.NoError(t, err)

	assert.Equal(t, "Upload successful: 3 = 3. Row counts match.\n", out.String())

	pool := testhelpers.GetTestPool(t, connString)

	// Inferred column types
	rows, err := pool.Query(ctx,
		`SELECT column_name, data_type FROM information_schema.columns
		 WHERE table_name = $1 ORDER BY ordinal_position`, tableName)
	require.NoError(t, err)
	defer rows.Close()

	types := map[string]string{}
	var order []string
	for rows.Next() {
		var name, dataType string
		require.NoError(t, rows.Scan(&name, &dataType))
		types[name] = dataType
		order = append(order, name)
	}
	require.NoError(t, rows.Err())

	assert.Equal(t, []string{"id", "amount", "approved", "issued_at", "note"}, order)
	assert.Equal(t, "bigint", types["id"])
	assert.Equal(t, "double precision", types["amount"])
	assert.Equal(t, "boolean", types["approved"])
	assert.Equal(t, "timestamp with time zone", types["issued_at"])
	assert.Equal(t, "text", types["note"])

	// Values survive the round trip; empty fields become NULL
	var amount float64
	var note *string
	require.NoError(t, pool.QueryRow(ctx,
		fmt.Sprintf("SELECT amount, note FROM %q WHERE id = 2", tableName)).Scan(&amount, &note))
	assert.Equal(t, 320.00, amount)
	assert.Nil(t, note)
}

func TestLoadService_Run_ReplaceLeavesNoResidue(t *testing.T) {
	connString := testhelpers.RequireDatabase(t)
	ctx := context.Background()

	tableName := "csvup_it_replace"
	t.Cleanup(func() { dropTable(t, connString, tableName) })

	first := writeCSV(t, "first.csv", "id,city\n1,berlin\n2,paris\n3,madrid\n4,rome\n5,oslo\n")
	second := writeCSV(t, "second.csv", "id\n10\n20\n")

	var out bytes.Buffer
	service := testhelpers.NewTestLoadService(t, &out)

	baseConfig := csvup.LoadConfig{
		TableName:        tableName,
		ConnectionString: connString,
		Force:            true,
	}

	config := baseConfig
	config.CSVPath = first
	require.NoError(t, service.Run(ctx, config))

	out.Reset()
	config = baseConfig
	config.CSVPath = second
	require.NoError(t, service.Run(ctx, config))

	assert.Equal(t, "Upload successful: 2 = 2. Row counts match.\n", out.String())

	pool := testhelpers.GetTestPool(t, connString)

	// The old schema is gone along with the old rows
	var columnCount int
	require.NoError(t, pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM information_schema.columns WHERE table_name = $1`,
		tableName).Scan(&columnCount))
	assert.Equal(t, 1, columnCount)

	var rowCount int64
	require.NoError(t, pool.QueryRow(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM %q", tableName)).Scan(&rowCount))
	assert.Equal(t, int64(2), rowCount)
}

func TestLoadService_Run_HeaderOnlyFile(t *testing.T) {
	connString := testhelpers.RequireDatabase(t)
	ctx := context.Background()

	tableName := "csvup_it_empty"
	t.Cleanup(func() { dropTable(t, connString, tableName) })

	csvPath := writeCSV(t, "empty.csv", "id,name\n")

	var out bytes.Buffer
	service := testhelpers.NewTestLoadService(t, &out)

	err := service.Run(ctx, csvup.LoadConfig{
		CSVPath:          csvPath,
		TableName:        tableName,
		ConnectionString: connString,
		Force:            true,
	})
	require.NoError(t, err)

	assert.Equal(t, "Upload successful: 0 = 0. Row counts match.\n", out.String())

	pool := testhelpers.GetTestPool(t, connString)
	var rowCount int64
	require.NoError(t, pool.QueryRow(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM %q", tableName)).Scan(&rowCount))
	assert.Zero(t, rowCount)
}

func TestLoadService_Run_SemicolonDelimiter(t *testing.T) {
	connString := testhelpers.RequireDatabase(t)
	ctx := context.Background()

	tableName := "csvup_it_semicolon"
	t.Cleanup(func() { dropTable(t, connString, tableName) })

	csvPath := writeCSV(t, "export.csv", "id;label\n1;with,comma\n2;plain\n")

	var out bytes.Buffer
	service := testhelpers.NewTestLoadService(t, &out)

	err := service.Run(ctx, csvup.LoadConfig{
		CSVPath:          csvPath,
		TableName:        tableName,
		ConnectionString: connString,
		Delimiter:        ';',
		Force:            true,
	})
	require.NoError(t, err)

	pool := testhelpers.GetTestPool(t, connString)
	var label string
	require.NoError(t, pool.QueryRow(ctx,
		fmt.Sprintf("SELECT label FROM %q WHERE id = 1", tableName)).Scan(&label))
	assert.Equal(t, "with,comma", label)
}

// denyingApprover refuses every replacement request.
type denyingApprover struct{}

func (denyingApprover) RequestApproval(ctx context.Context, tableName string) (bool, error) {
	return false, nil
}

func TestLoadService_Run_ApprovalDeniedKeepsTable(t *testing.T) {
	connString := testhelpers.RequireDatabase(t)
	ctx := context.Background()

	tableName := "csvup_it_denied"
	t.Cleanup(func() { dropTable(t, connString, tableName) })

	csvPath := writeCSV(t, "data.csv", "id\n1\n2\n3\n")

	var out bytes.Buffer
	forced := testhelpers.NewTestLoadService(t, &out)
	config := csvup.LoadConfig{
		CSVPath:          csvPath,
		TableName:        tableName,
		ConnectionString: connString,
		Force:            true,
	}
	require.NoError(t, forced.Run(ctx, config))

	// Second run without --force against the existing table is denied
	denying := services.NewLoadService(db.NewConnector, denyingApprover{}, logging.NewNullLogger(), &out)
	config.Force = false
	err := denying.Run(ctx, config)
	require.Error(t, err)
	assert.True(t, errors.Is(err, csvup.ErrApprovalDenied))

	// The existing rows are untouched
	pool := testhelpers.GetTestPool(t, connString)
	var rowCount int64
	require.NoError(t, pool.QueryRow(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM %q", tableName)).Scan(&rowCount))
	assert.Equal(t, int64(3), rowCount)
}

func TestLoadService_Run_NewTableSkipsApproval(t *testing.T) {
	connString := testhelpers.RequireDatabase(t)
	ctx := context.Background()

	tableName := "csvup_it_fresh"
	t.Cleanup(func() { dropTable(t, connString, tableName) })
	dropTable(t, connString, tableName)

	csvPath := writeCSV(t, "data.csv", "id\n1\n")

	// A denying approver must never be consulted for a table that does not exist
	var out bytes.Buffer
	service := services.NewLoadService(db.NewConnector, denyingApprover{}, logging.NewNullLogger(), &out)

	err := service.Run(ctx, csvup.LoadConfig{
		CSVPath:          csvPath,
		TableName:        tableName,
		ConnectionString: connString,
	})
	require.NoError(t, err)
	assert.Equal(t, "Upload successful: 1 = 1. Row counts match.\n", out.String())
}

func TestLoadService_Run_StrictWithMatchingCounts(t *testing.T) {
	connString := testhelpers.RequireDatabase(t)
	ctx := context.Background()

	tableName := "csvup_it_strict"
	t.Cleanup(func() { dropTable(t, connString, tableName) })

	csvPath := writeCSV(t, "data.csv", "id\n1\n2\n")

	var out bytes.Buffer
	service := testhelpers.NewTestLoadService(t, &out)

	err := service.Run(ctx, csvup.LoadConfig{
		CSVPath:          csvPath,
		TableName:        tableName,
		ConnectionString: connString,
		Force:            true,
		Strict:           true,
	})
	require.NoError(t, err, "strict mode must not fail when the counts match")
}
