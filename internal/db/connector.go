package db

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/csvup/pkg/csvup"
)

// Connection pool configuration constants.
const (
	// DefaultMaxConns is deliberately small: the pipeline is sequential and
	// a single connection carries both the bulk write and the count query.
	DefaultMaxConns = 2

	// DefaultMinConns keeps one connection alive between the stages.
	DefaultMinConns = 1
)

func configurePool(poolConfig *pgxpool.Config) {
	poolConfig.MaxConns = DefaultMaxConns
	poolConfig.MinConns = DefaultMinConns
	poolConfig.ConnConfig.OnNotice = func(_ *pgconn.PgConn, notice *pgconn.Notice) {
		fmt.Fprintln(os.Stderr, notice.Message)
	}
}

// StandardConnector implements the Connector interface for standard
// username/password authentication. It makes exactly one connection
// attempt; failures propagate to the caller unchanged.
type StandardConnector struct {
	config *csvup.ConnectionConfig
}

// NewStandardConnector creates a new StandardConnector with the given configuration.
func NewStandardConnector(config *csvup.ConnectionConfig) *StandardConnector {
	return &StandardConnector{config: config}
}

// Connect establishes a connection pool using standard authentication.
func (c *StandardConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	connStr := BuildConnectionString(c.config)

	poolConfig, err := pgxpool.ParseConfig(connStr)
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

// NewConnector is a factory function that creates the appropriate Connector
// based on the ConnectionConfig's AuthMethod.
func NewConnector(config *csvup.ConnectionConfig) (csvup.Connector, error) {
	switch config.AuthMethod {
	case csvup.AuthMethodStandard:
		return NewStandardConnector(config), nil
	case csvup.AuthMethodAWSIAM:
		return newAWSConnector(config)
	case csvup.AuthMethodGoogleIAM:
		return newGoogleConnector(config)
	case csvup.AuthMethodAzureEntraID:
		return newAzureConnector(config)
	default:
		return nil, fmt.Errorf("unsupported auth method %v: %w", config.AuthMethod, csvup.ErrInvalidConfig)
	}
}

// wrapConnectionError attaches a short hint to raw pgx connection errors and
// binds them to the ErrConnection sentinel.
func wrapConnectionError(err error, host string, port int, database string) error {
	errStr := strings.ToLower(err.Error())
	addr := fmt.Sprintf("%s:%d", host, port)

	var hint string
	switch {
	case strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "actively refused"):
		hint = fmt.Sprintf("connection refused to %s; is PostgreSQL running? (check: pg_isready -h %s -p %d)", addr, host, port)
	case strings.Contains(errStr, "no such host") || strings.Contains(errStr, "no host"):
		hint = fmt.Sprintf("cannot resolve host %q; check the hostname and DNS", host)
	case strings.Contains(errStr, "password authentication failed"):
		hint = fmt.Sprintf("password authentication failed for database %q; check $PGPASSWORD or ~/.pgpass", database)
	case strings.Contains(errStr, "does not exist"):
		hint = fmt.Sprintf("database %q does not exist on %s", database, addr)
	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "timed out"):
		hint = fmt.Sprintf("connection timed out to %s; check the host, port and firewall", addr)
	case strings.Contains(errStr, "ssl") || strings.Contains(errStr, "tls"):
		hint = "SSL/TLS negotiation failed; try a different --sslmode"
	default:
		hint = "failed to connect to database"
	}

	return fmt.Errorf("%w: %s: %v", csvup.ErrConnection, hint, err)
}

func newAWSConnector(config *csvup.ConnectionConfig) (csvup.Connector, error) {
	endpoint := fmt.Sprintf("%s:%d", config.Host, config.Port)

	tokenProvider, err := NewAWSIAMTokenProvider(endpoint, config.AWSRegion, config.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS IAM token provider: %w", err)
	}

	return NewTokenBasedConnector(config, tokenProvider, "AWS IAM"), nil
}

func newGoogleConnector(config *csvup.ConnectionConfig) (csvup.Connector, error) {
	if config.GoogleInstance == "" {
		return nil, fmt.Errorf("Google Cloud SQL IAM auth requires --google-instance (project:region:instance): %w", csvup.ErrInvalidConfig)
	}
	if config.Username == "" {
		return nil, fmt.Errorf("Google Cloud SQL IAM auth requires username (-U): %w", csvup.ErrInvalidConfig)
	}

	return NewGoogleCloudSQLConnector(config, config.GoogleInstance), nil
}

// newAzureConnector picks Service Principal auth when explicit credentials
// are present, otherwise the DefaultAzureCredential chain.
func newAzureConnector(config *csvup.ConnectionConfig) (csvup.Connector, error) {
	var tokenProvider TokenProvider
	var err error

	if config.AzureTenantID != "" && config.AzureClientID != "" && config.AzureClientSecret != "" {
		tokenProvider, err = NewAzureServicePrincipalProvider(
			config.AzureTenantID,
			config.AzureClientID,
			config.AzureClientSecret,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Azure Service Principal provider: %w", err)
		}
	} else {
		tokenProvider, err = NewAzureDefaultCredentialProvider()
		if err != nil {
			return nil, fmt.Errorf("failed to create Azure Default Credential provider: %w", err)
		}
	}

	return NewTokenBasedConnector(config, tokenProvider, "Azure"), nil
}
