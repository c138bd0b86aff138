package csvup

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connector is a unified interface for establishing database connections.
// Different implementations handle various authentication methods
// (standard credentials, AWS IAM, Google Cloud SQL IAM, Azure Entra ID).
//
// Connectors make a single connection attempt; transient failures surface
// to the caller unchanged.
type Connector interface {
	// Connect establishes a connection pool to the database.
	// The returned pool must be closed by the caller when done.
	Connect(ctx context.Context) (*pgxpool.Pool, error)
}
