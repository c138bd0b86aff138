package db

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/csvup/pkg/csvup"
)

// TokenProvider abstracts cloud token acquisition for database
// authentication. The token is used as the PostgreSQL password when
// connecting to cloud-hosted PostgreSQL (RDS, Azure Flexible Server).
type TokenProvider interface {
	// GetToken acquires a short-lived authentication token and its expiry.
	GetToken(ctx context.Context) (token string, expiresOn time.Time, err error)

	// String returns a human-readable description for logging.
	// Must NOT include secrets.
	String() string
}

// TokenBasedConnector implements the Connector interface for cloud providers
// that authenticate via short-lived tokens (AWS IAM, Azure Entra ID).
type TokenBasedConnector struct {
	config        *csvup.ConnectionConfig
	tokenProvider TokenProvider
	providerName  string
}

// NewTokenBasedConnector creates a connector that uses a TokenProvider for
// authentication. providerName is used in messages (e.g., "AWS IAM", "Azure").
func NewTokenBasedConnector(config *csvup.ConnectionConfig, tokenProvider TokenProvider, providerName string) *TokenBasedConnector {
	return &TokenBasedConnector{
		config:        config,
		tokenProvider: tokenProvider,
		providerName:  providerName,
	}
}

// Connect acquires a token and establishes a connection pool with it.
// A single attempt is made; a rejected or expired token surfaces as a
// connection error.
func (c *TokenBasedConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	token, expiresOn, err := c.tokenProvider.GetToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to acquire %s token: %v", csvup.ErrConnection, c.providerName, err)
	}

	if time.Until(expiresOn) < 5*time.Minute {
		fmt.Fprintf(os.Stderr, "Warning: %s token expires in %v\n", c.providerName, time.Until(expiresOn).Round(time.Second))
	}

	configWithToken := *c.config
	configWithToken.Password = token

	poolConfig, err := pgxpool.ParseConfig(BuildConnectionString(&configWithToken))
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection config: %w", err)
	}

	configurePool(poolConfig)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, wrapConnectionError(err, c.config.Host, c.config.Port, c.config.Database)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, wrapConnectionError(err, c.config.Host, c.config.Port, c.config.Database)
	}

	return pool, nil
}
