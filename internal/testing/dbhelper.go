// Package testing provides shared helpers for integration tests: a lazily
// started PostgreSQL container, connection pools, and a preconfigured
// pipeline service.
package testing

import (
	"context"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/csvup/internal/db"
	"github.com/vvka-141/csvup/internal/logging"
	"github.com/vvka-141/csvup/internal/services"
	"github.com/vvka-141/csvup/internal/testinfra"
)

var (
	testContainerOnce sync.Once
	testContainerConn string
	testContainerErr  error
)

func getOrStartTestContainer() (string, error) {
	testContainerOnce.Do(func() {
		ctx := context.Background()
		container, err := testinfra.StartPostgres(ctx)
		if err != nil {
			testContainerErr = err
			return
		}
		testContainerConn = container.ConnString
	})
	return testContainerConn, testContainerErr
}

// GetTestConnectionString returns the test database connection string.
// Priority: CSVUP_TEST_CONN env var > auto-started testcontainer > skip test.
func GetTestConnectionString(t *testing.T) string {
	t.Helper()

	if connString := os.Getenv("CSVUP_TEST_CONN"); connString != "" {
		return connString
	}

	connString, err := getOrStartTestContainer()
	if err != nil {
		t.Skipf("CSVUP_TEST_CONN not set and Docker unavailable: %v", err)
	}
	return connString
}

// SkipIfShort skips the test if running in short mode (-short flag).
func SkipIfShort(t *testing.T) {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
}

// RequireDatabase combines SkipIfShort and GetTestConnectionString for convenience.
// Returns the test connection string if available, otherwise skips the test.
func RequireDatabase(t *testing.T) string {
	t.Helper()

	SkipIfShort(t)
	return GetTestConnectionString(t)
}

// GetTestPool opens a pool against connString and closes it when the test ends.
func GetTestPool(t *testing.T, connString string) *pgxpool.Pool {
	t.Helper()

	pool, err := pgxpool.New(context.Background(), connString)
	if err != nil {
		t.Fatalf("connect to test database: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

// NewTestLoadService creates a LoadService wired for testing: standard
// connector factory, auto-approving approver, silent logger, report written
// to out.
func NewTestLoadService(t *testing.T, out io.Writer) *services.LoadService {
	t.Helper()

	return services.NewLoadService(
		db.NewConnector,
		&ForceApprover{},
		logging.NewNullLogger(),
		out,
	)
}

// ForceApprover is a test approver that always approves replacement requests.
type ForceApprover struct{}

// RequestApproval always returns true (auto-approves).
func (a *ForceApprover) RequestApproval(ctx context.Context, tableName string) (bool, error) {
	return true, nil
}
